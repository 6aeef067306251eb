package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
)

// A write that races an invalidation can leave an old summary behind; it
// lives at most this long.
const ratingTTL = 5 * time.Minute

type RatingCache struct {
	client *redis.Client
}

var _ service.RatingCache = (*RatingCache)(nil)

func NewRatingCache(addr string) (*RatingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RatingCache{client: client}, nil
}

func ratingKey(sellerID string) string {
	return "rating:" + sellerID
}

func (c *RatingCache) Get(ctx context.Context, sellerID string) (*entity.RatingSummary, error) {
	data, err := c.client.Get(ctx, ratingKey(sellerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary entity.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *RatingCache) Set(ctx context.Context, summary *entity.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ratingKey(summary.SellerID), data, ratingTTL).Err()
}

func (c *RatingCache) Invalidate(ctx context.Context, sellerID string) error {
	return c.client.Del(ctx, ratingKey(sellerID)).Err()
}

func (c *RatingCache) Close() error {
	return c.client.Close()
}

func (c *RatingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
