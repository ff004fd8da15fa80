package dto

import (
	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

// CreateReviewRequest payload. Rating may be a number or a numeric string.
type CreateReviewRequest struct {
	BusinessID   string     `json:"businessId"`
	Rating       FlexString `json:"rating"`
	ReviewText   string     `json:"reviewText"`
	ReviewerName string     `json:"reviewerName"`
}

// ReviewResponse is the public shape of a Review.
type ReviewResponse struct {
	ID           string `json:"id"`
	BusinessID   string `json:"businessId"`
	Rating       int    `json:"rating"`
	ReviewText   string `json:"reviewText"`
	ReviewerName string `json:"reviewerName"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// NewReviewResponse maps a domain review.
func NewReviewResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BusinessID:   r.BusinessID,
		Rating:       r.Rating,
		ReviewText:   r.ReviewText,
		ReviewerName: r.ReviewerName,
		Status:       string(r.Status),
		CreatedAt:    docstore.FormatTime(r.CreatedAt),
	}
}

// NewReviewListResponse maps a slice of reviews.
func NewReviewListResponse(items []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

// StatsResponse is the dashboard summary. ProfileViews and CustomerLeads are
// placeholders.
type StatsResponse struct {
	TotalProducts  int64 `json:"totalProducts"`
	ActiveProducts int64 `json:"activeProducts"`
	ProfileViews   int   `json:"profileViews"`
	CustomerLeads  int   `json:"customerLeads"`
}

// NewStatsResponse maps domain stats.
func NewStatsResponse(s domain.BusinessStats) StatsResponse {
	return StatsResponse{
		TotalProducts:  s.TotalProducts,
		ActiveProducts: s.ActiveProducts,
		ProfileViews:   s.ProfileViews,
		CustomerLeads:  s.CustomerLeads,
	}
}
