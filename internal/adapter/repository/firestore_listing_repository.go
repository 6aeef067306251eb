package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func setListingID(l *entity.Listing, id string) { l.ID = id }

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	wr, err := r.client.Collection(listingsCollection).Doc(listing.ID).Set(ctx, listing)
	commitTime(wr, &listing.CreatedAt)
	return storeError("Listing", err)
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection(listingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("Listing", err)
	}

	listing, err := decodeOne[entity.Listing](doc, "listing")
	if err != nil {
		return nil, err
	}
	listing.ID = doc.Ref.ID
	return listing, nil
}

// query builds the filtered feed query. Combining an equality filter with the
// createdAt ordering needs a composite index per filter combination.
func (r *firestoreListingRepository) query(filter repository.ListingFilter) firestore.Query {
	q := r.client.Collection(listingsCollection).Query
	if filter.SellerID != "" {
		q = q.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", filter.Status)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	return decodeAll[entity.Listing](r.query(filter).Documents(ctx), "listing", setListingID)
}

func (r *firestoreListingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.client.Collection(listingsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
	})
	return storeError("Listing", err)
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(listingsCollection).Doc(id).Delete(ctx)
	return storeError("Listing", err)
}

func (r *firestoreListingRepository) Subscribe(ctx context.Context, filter repository.ListingFilter, onChange func([]*entity.Listing)) (repository.Subscription, error) {
	return watchQuery(ctx, r.query(filter), "listing", setListingID, onChange)
}
