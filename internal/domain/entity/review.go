package entity

import (
	"time"
)

type Review struct {
	ID           string    `json:"id" firestore:"id"`
	SellerID     string    `json:"seller_id" firestore:"sellerId"`
	ReviewerID   string    `json:"reviewer_id" firestore:"reviewerId"`
	ReviewerName string    `json:"reviewer_name" firestore:"reviewerName"`
	Rating       int       `json:"rating" firestore:"rating"` // 1-5
	Comment      string    `json:"comment" firestore:"comment"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// RatingSummary is the aggregate shown next to a seller's name.
type RatingSummary struct {
	SellerID string  `json:"seller_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

func SummarizeRatings(sellerID string, reviews []*Review) RatingSummary {
	summary := RatingSummary{SellerID: sellerID}
	if len(reviews) == 0 {
		return summary
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	summary.Count = len(reviews)
	summary.Average = float64(total) / float64(len(reviews))
	return summary
}
