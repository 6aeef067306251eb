package service

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

// RatingCache memoises seller rating summaries. A miss returns (nil, nil).
type RatingCache interface {
	Get(ctx context.Context, sellerID string) (*entity.RatingSummary, error)
	Set(ctx context.Context, summary *entity.RatingSummary) error
	Invalidate(ctx context.Context, sellerID string) error
}

type noopRatingCache struct{}

// NoopRatingCache never hits. Used when no cache is configured.
func NoopRatingCache() RatingCache {
	return noopRatingCache{}
}

func (noopRatingCache) Get(ctx context.Context, sellerID string) (*entity.RatingSummary, error) {
	return nil, nil
}

func (noopRatingCache) Set(ctx context.Context, summary *entity.RatingSummary) error {
	return nil
}

func (noopRatingCache) Invalidate(ctx context.Context, sellerID string) error {
	return nil
}
