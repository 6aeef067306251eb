package memstore

import (
	"context"
	"sort"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type DealRepository struct {
	s *Store
}

func cloneDeal(d *entity.Deal) *entity.Deal {
	c := *d
	if d.MeetingTime != nil {
		t := *d.MeetingTime
		c.MeetingTime = &t
	}
	return &c
}

func (r *DealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	r.s.mu.Lock()
	if deal.ID == "" {
		deal.ID = newID()
	}
	now := r.s.now()
	deal.CreatedAt = now
	deal.UpdatedAt = now
	r.s.deals[deal.ID] = cloneDeal(deal)
	r.s.mu.Unlock()

	r.s.notify(kindDeal)
	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.deals[id]
	if !ok {
		return nil, errors.NotFound("Deal", nil)
	}
	return cloneDeal(d), nil
}

func (r *DealRepository) filter(match func(*entity.Deal) bool) []*entity.Deal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var deals []*entity.Deal
	for _, d := range r.s.deals {
		if match(d) {
			deals = append(deals, cloneDeal(d))
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].CreatedAt.Before(deals[j].CreatedAt) })
	return deals
}

func (r *DealRepository) ListByListingAndBuyer(ctx context.Context, listingID, buyerID string) ([]*entity.Deal, error) {
	return r.filter(func(d *entity.Deal) bool {
		return d.ListingID == listingID && d.BuyerID == buyerID
	}), nil
}

func (r *DealRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Deal, error) {
	return r.filter(func(d *entity.Deal) bool { return d.ListingID == listingID }), nil
}

func (r *DealRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Deal, error) {
	return r.filter(func(d *entity.Deal) bool { return d.BuyerID == buyerID }), nil
}

func (r *DealRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Deal, error) {
	return r.filter(func(d *entity.Deal) bool { return d.SellerID == sellerID }), nil
}

func (r *DealRepository) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Deal, error) {
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	return r.filter(func(d *entity.Deal) bool { return want[d.Status] }), nil
}

func (r *DealRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	d, ok := r.s.deals[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Deal", nil)
	}
	d.Status = status
	d.UpdatedAt = r.s.now()
	r.s.mu.Unlock()

	r.s.notify(kindDeal)
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.deals, id)
	r.s.mu.Unlock()

	r.s.notify(kindDeal)
	return nil
}

func (r *DealRepository) SubscribeByUser(ctx context.Context, userID string, asSeller bool, onChange func([]*entity.Deal)) (repository.Subscription, error) {
	return r.s.watch(kindDeal, func() {
		onChange(r.filter(func(d *entity.Deal) bool {
			if asSeller {
				return d.SellerID == userID
			}
			return d.BuyerID == userID
		}))
	}), nil
}
