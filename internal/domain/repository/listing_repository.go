package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

// ListingFilter holds equality predicates; zero values are ignored.
// Results are ordered newest first.
type ListingFilter struct {
	SellerID string
	Category string
	Status   string
	Limit    int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, filter ListingFilter, onChange func([]*entity.Listing)) (Subscription, error)
}
