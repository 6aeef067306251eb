package service

import (
	"context"
	"time"
)

const (
	SubjectDealCreated      = "market.deal.created"
	SubjectDealTransitioned = "market.deal.transitioned"
	SubjectListingRemoved   = "market.listing.removed"
	SubjectListingsHidden   = "market.listings.hidden"
	SubjectUserDisabled     = "market.user.disabled"
)

// EventPublisher fans domain events out to other services.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type DealEvent struct {
	DealID    string    `json:"deal_id"`
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	At        time.Time `json:"at"`
}

type ModerationEvent struct {
	AdminID   string    `json:"admin_id"`
	ListingID string    `json:"listing_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Disabled  *bool     `json:"disabled,omitempty"`
	At        time.Time `json:"at"`
}

type noopPublisher struct{}

// NoopPublisher drops every event. Used when no broker is configured.
func NoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}
