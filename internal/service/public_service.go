package service

import (
	"context"
	"strings"

	"github.com/spec-kit/shop-directory/internal/domain"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/repository"
)

// PublicService serves the customer-facing read paths and review submission.
type PublicService struct {
	businesses repository.BusinessRepository
	products   repository.ProductRepository
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
	now        Clock
}

// PublicDependencies bundles collaborators for the public service.
type PublicDependencies struct {
	BusinessRepo repository.BusinessRepository
	ProductRepo  repository.ProductRepository
	ReviewRepo   repository.ReviewRepository
	Dispatcher   events.Dispatcher
	Clock        Clock
}

// ReviewCreateInput describes a customer review. Rating is the raw client value.
type ReviewCreateInput struct {
	BusinessID   string
	Rating       string
	ReviewText   string
	ReviewerName string
}

// NewPublicService constructs the service.
func NewPublicService(deps PublicDependencies) *PublicService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	return &PublicService{
		businesses: deps.BusinessRepo,
		products:   deps.ProductRepo,
		reviews:    deps.ReviewRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// GetBusiness returns the full listing.
func (s *PublicService) GetBusiness(ctx context.Context, id string) (*domain.Business, error) {
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("business", "get business", err)
	}
	return business, nil
}

// ListActiveProducts returns only active products, newest first.
func (s *PublicService) ListActiveProducts(ctx context.Context, businessID string) ([]domain.Product, error) {
	products, err := s.products.ListByBusiness(ctx, businessID, true)
	if err != nil {
		return nil, storeError("product", "list active products", err)
	}
	return products, nil
}

// ListReviews returns the most recent reviews, newest first.
func (s *PublicService) ListReviews(ctx context.Context, businessID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListRecent(ctx, businessID, domain.ReviewListLimit)
	if err != nil {
		return nil, storeError("review", "list reviews", err)
	}
	return reviews, nil
}

// CreateReview stores a pending review.
func (s *PublicService) CreateReview(ctx context.Context, input ReviewCreateInput) (*domain.Review, error) {
	if err := requireFields(
		field{"businessId", input.BusinessID},
		field{"rating", input.Rating},
		field{"reviewText", input.ReviewText},
		field{"reviewerName", input.ReviewerName},
	); err != nil {
		return nil, err
	}
	rating, err := parseRating(input.Rating)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		BusinessID:   strings.TrimSpace(input.BusinessID),
		Rating:       rating,
		ReviewText:   strings.TrimSpace(input.ReviewText),
		ReviewerName: strings.TrimSpace(input.ReviewerName),
		Status:       domain.ReviewStatusPending,
		CreatedAt:    s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, storeError("review", "create review", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, events.Event{
			Type:       events.EventReviewSubmitted,
			BusinessID: review.BusinessID,
			SubjectID:  review.ID,
			Timestamp:  review.CreatedAt,
			Payload: events.ReviewSubmittedPayload{
				Rating:       review.Rating,
				ReviewerName: review.ReviewerName,
			},
		})
	}
	return review, nil
}
