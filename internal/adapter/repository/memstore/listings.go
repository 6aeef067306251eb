package memstore

import (
	"context"
	"sort"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type ListingRepository struct {
	s *Store
}

func cloneListing(l *entity.Listing) *entity.Listing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	return &c
}

func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.s.mu.Lock()
	if listing.ID == "" {
		listing.ID = newID()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = r.s.now()
	}
	r.s.listings[listing.ID] = cloneListing(listing)
	r.s.mu.Unlock()

	r.s.notify(kindListing)
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return cloneListing(l), nil
}

func matchListing(l *entity.Listing, f repository.ListingFilter) bool {
	if f.SellerID != "" && l.SellerID != f.SellerID {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	return true
}

func (r *ListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var listings []*entity.Listing
	for _, l := range r.s.listings {
		if matchListing(l, filter) {
			listings = append(listings, cloneListing(l))
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	if filter.Limit > 0 && len(listings) > filter.Limit {
		listings = listings[:filter.Limit]
	}
	return listings, nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	l, ok := r.s.listings[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Listing", nil)
	}
	l.Status = status
	r.s.mu.Unlock()

	r.s.notify(kindListing)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.listings, id)
	r.s.mu.Unlock()

	r.s.notify(kindListing)
	return nil
}

func (r *ListingRepository) Subscribe(ctx context.Context, filter repository.ListingFilter, onChange func([]*entity.Listing)) (repository.Subscription, error) {
	return r.s.watch(kindListing, func() {
		listings, _ := r.List(ctx, filter)
		onChange(listings)
	}), nil
}
