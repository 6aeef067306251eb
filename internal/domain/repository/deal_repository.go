package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	ListByListingAndBuyer(ctx context.Context, listingID, buyerID string) ([]*entity.Deal, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Deal, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Deal, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Deal, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Deal, error)
	// UpdateStatus sets status and a fresh updatedAt.
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// SubscribeByUser watches deals where userID is the seller (asSeller) or the buyer.
	SubscribeByUser(ctx context.Context, userID string, asSeller bool, onChange func([]*entity.Deal)) (Subscription, error)
}
