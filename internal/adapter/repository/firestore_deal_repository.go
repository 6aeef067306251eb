package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
)

type firestoreDealRepository struct {
	client *firestore.Client
}

func NewFirestoreDealRepository(client *firestore.Client) repository.DealRepository {
	return &firestoreDealRepository{
		client: client,
	}
}

func setDealID(d *entity.Deal, id string) { d.ID = id }

func (r *firestoreDealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	wr, err := r.client.Collection(dealsCollection).Doc(deal.ID).Set(ctx, deal)
	commitTime(wr, &deal.CreatedAt, &deal.UpdatedAt)
	return storeError("Deal", err)
}

func (r *firestoreDealRepository) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	doc, err := r.client.Collection(dealsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("Deal", err)
	}

	deal, err := decodeOne[entity.Deal](doc, "deal")
	if err != nil {
		return nil, err
	}
	deal.ID = doc.Ref.ID
	return deal, nil
}

func (r *firestoreDealRepository) list(ctx context.Context, q firestore.Query) ([]*entity.Deal, error) {
	return decodeAll[entity.Deal](q.Documents(ctx), "deal", setDealID)
}

func (r *firestoreDealRepository) ListByListingAndBuyer(ctx context.Context, listingID, buyerID string) ([]*entity.Deal, error) {
	return r.list(ctx, r.client.Collection(dealsCollection).
		Where("listingId", "==", listingID).
		Where("buyerId", "==", buyerID))
}

func (r *firestoreDealRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Deal, error) {
	return r.list(ctx, r.client.Collection(dealsCollection).Where("listingId", "==", listingID))
}

func (r *firestoreDealRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Deal, error) {
	return r.list(ctx, r.client.Collection(dealsCollection).Where("buyerId", "==", buyerID))
}

func (r *firestoreDealRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Deal, error) {
	return r.list(ctx, r.client.Collection(dealsCollection).Where("sellerId", "==", sellerID))
}

func (r *firestoreDealRepository) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Deal, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	values := make([]interface{}, len(statuses))
	for i, s := range statuses {
		values[i] = s
	}
	return r.list(ctx, r.client.Collection(dealsCollection).Where("status", "in", values))
}

func (r *firestoreDealRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.client.Collection(dealsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	return storeError("Deal", err)
}

func (r *firestoreDealRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(dealsCollection).Doc(id).Delete(ctx)
	return storeError("Deal", err)
}

func (r *firestoreDealRepository) SubscribeByUser(ctx context.Context, userID string, asSeller bool, onChange func([]*entity.Deal)) (repository.Subscription, error) {
	field := "buyerId"
	if asSeller {
		field = "sellerId"
	}
	q := r.client.Collection(dealsCollection).Where(field, "==", userID)
	return watchQuery(ctx, q, "deal", setDealID, onChange)
}
