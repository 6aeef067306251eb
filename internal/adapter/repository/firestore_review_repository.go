package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func setReviewID(r *entity.Review, id string) { r.ID = id }

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	wr, err := r.client.Collection(reviewsCollection).Doc(review.ID).Set(ctx, review)
	commitTime(wr, &review.CreatedAt)
	return storeError("Review", err)
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection(reviewsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("Review", err)
	}

	review, err := decodeOne[entity.Review](doc, "review")
	if err != nil {
		return nil, err
	}
	review.ID = doc.Ref.ID
	return review, nil
}

func (r *firestoreReviewRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Review, error) {
	q := r.client.Collection(reviewsCollection).Where("sellerId", "==", sellerID)
	return decodeAll[entity.Review](q.Documents(ctx), "review", setReviewID)
}

func (r *firestoreReviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*entity.Review, error) {
	q := r.client.Collection(reviewsCollection).Where("reviewerId", "==", reviewerID)
	return decodeAll[entity.Review](q.Documents(ctx), "review", setReviewID)
}

func (r *firestoreReviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(reviewsCollection).Doc(id).Delete(ctx)
	return storeError("Review", err)
}
