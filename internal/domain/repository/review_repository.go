package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]*entity.Review, error)
	Delete(ctx context.Context, id string) error
}
