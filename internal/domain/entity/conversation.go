package entity

import "time"

type Conversation struct {
	ID string `json:"id" firestore:"id"`
	// ListingID is empty for admin-initiated threads.
	ListingID    string    `json:"listing_id" firestore:"listingId"`
	Participants []string  `json:"participants" firestore:"participants"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Matches reports whether the conversation is the thread for listingID
// between exactly userA and userB, in either order.
func (c *Conversation) Matches(listingID, userA, userB string) bool {
	if c.ListingID != listingID || len(c.Participants) != 2 {
		return false
	}
	a, b := c.Participants[0], c.Participants[1]
	return (a == userA && b == userB) || (a == userB && b == userA)
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
