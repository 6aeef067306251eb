package memstore

import (
	"context"
	"sort"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if review.ID == "" {
		review.ID = newID()
	}
	review.CreatedAt = r.s.now()
	cp := *review
	r.s.reviews[review.ID] = &cp
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	cp := *rv
	return &cp, nil
}

func (r *ReviewRepository) filter(match func(*entity.Review) bool) []*entity.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if match(rv) {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ReviewRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.SellerID == sellerID }), nil
}

func (r *ReviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.ReviewerID == reviewerID }), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}
