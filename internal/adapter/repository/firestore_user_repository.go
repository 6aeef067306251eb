package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func setUserID(u *entity.User, id string) { u.ID = id }

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = entity.RoleUser
	}

	wr, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	commitTime(wr, &user.CreatedAt, &user.UpdatedAt)
	return storeError("User", err)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("User", err)
	}

	user, err := decodeOne[entity.User](doc, "user")
	if err != nil {
		return nil, err
	}
	user.ID = doc.Ref.ID
	return user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("email", "==", strings.ToLower(email)).Limit(1)
	users, err := decodeAll[entity.User](query.Documents(ctx), "user", setUserID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.NotFound("User", nil)
	}
	return users[0], nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Asc)
	return decodeAll[entity.User](query.Documents(ctx), "user", setUserID)
}

func (r *firestoreUserRepository) ListDisabled(ctx context.Context) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("disabled", "==", true)
	return decodeAll[entity.User](query.Documents(ctx), "user", setUserID)
}

func (r *firestoreUserRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, updates)
	return storeError("User", err)
}

func (r *firestoreUserRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return r.update(ctx, id, []firestore.Update{{Path: "disabled", Value: disabled}})
}

func (r *firestoreUserRepository) SetRole(ctx context.Context, id, role string) error {
	return r.update(ctx, id, []firestore.Update{{Path: "role", Value: role}})
}

func (r *firestoreUserRepository) SetDisplayName(ctx context.Context, id, displayName string) error {
	return r.update(ctx, id, []firestore.Update{{Path: "displayName", Value: displayName}})
}
