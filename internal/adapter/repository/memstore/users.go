package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type UserRepository struct {
	s *Store
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	if user.ID == "" {
		user.ID = newID()
	}
	now := r.s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(user)
	r.s.mu.Unlock()

	r.s.notify(kindUser)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *UserRepository) list(match func(*entity.User) bool) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*entity.User
	for _, u := range r.s.users {
		if match(u) {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(func(*entity.User) bool { return true }), nil
}

func (r *UserRepository) ListDisabled(ctx context.Context) ([]*entity.User, error) {
	return r.list(func(u *entity.User) bool { return u.Disabled }), nil
}

func (r *UserRepository) update(id string, apply func(*entity.User)) error {
	r.s.mu.Lock()
	u, ok := r.s.users[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("User", nil)
	}
	apply(u)
	u.UpdatedAt = r.s.now()
	r.s.mu.Unlock()

	r.s.notify(kindUser)
	return nil
}

func (r *UserRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return r.update(id, func(u *entity.User) { u.Disabled = disabled })
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	return r.update(id, func(u *entity.User) { u.Role = role })
}

func (r *UserRepository) SetDisplayName(ctx context.Context, id, displayName string) error {
	return r.update(id, func(u *entity.User) { u.DisplayName = displayName })
}
