package entity

import "time"

const (
	DealPending   = "pending"
	DealAccepted  = "accepted"
	DealRejected  = "rejected"
	DealCompleted = "completed"
	DealCancelled = "cancelled"
)

const (
	DealRoleBuyer  = "buyer"
	DealRoleSeller = "seller"
)

type Deal struct {
	ID            string     `json:"id" firestore:"id"`
	ListingID     string     `json:"listing_id" firestore:"listingId"`
	BuyerID       string     `json:"buyer_id" firestore:"buyerId"`
	SellerID      string     `json:"seller_id" firestore:"sellerId"`
	Price         float64    `json:"price" firestore:"price"`
	Status        string     `json:"status" firestore:"status"`
	PaymentMethod string     `json:"payment_method" firestore:"paymentMethod"`
	MeetingPlace  string     `json:"meeting_place" firestore:"meetingPlace"`
	MeetingTime   *time.Time `json:"meeting_time,omitempty" firestore:"meetingTime"`
	CreatedAt     time.Time  `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time  `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
}

// IsOpen reports whether the deal still blocks a new request for the same
// (listing, buyer) pair.
func (d *Deal) IsOpen() bool {
	return d.Status == DealPending || d.Status == DealAccepted
}

// RoleOf returns the deal role held by userID, or "" for outsiders.
func (d *Deal) RoleOf(userID string) string {
	switch userID {
	case d.SellerID:
		return DealRoleSeller
	case d.BuyerID:
		return DealRoleBuyer
	}
	return ""
}
