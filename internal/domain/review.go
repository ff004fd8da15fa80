package domain

import "time"

// ReviewStatus is the moderation state of a review. Nothing transitions it yet.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewListLimit caps the public review listing.
const ReviewListLimit = 10

// Review is a customer review of a Business.
type Review struct {
	ID           string
	BusinessID   string
	Rating       int
	ReviewText   string
	ReviewerName string
	Status       ReviewStatus
	CreatedAt    time.Time
}
