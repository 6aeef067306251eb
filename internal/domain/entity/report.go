package entity

import "time"

const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
)

type Report struct {
	ID            string    `json:"id" firestore:"id"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	ReporterID    string    `json:"reporter_id" firestore:"reporterId"`
	ReporterEmail string    `json:"reporter_email" firestore:"reporterEmail"`
	Reason        string    `json:"reason" firestore:"reason"`
	Status        string    `json:"status" firestore:"status"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
