package repository

import (
	"context"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

const (
	reviewFieldRating       = "rating"
	reviewFieldText         = "reviewText"
	reviewFieldReviewerName = "reviewerName"
)

// ReviewRepository stores customer reviews. Reviews are never updated or deleted.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListRecent(ctx context.Context, businessID string, limit int) ([]domain.Review, error)
}

type reviewRepository struct {
	store docstore.Store
}

// NewReviewRepository builds the repository.
func NewReviewRepository(store docstore.Store) ReviewRepository {
	return &reviewRepository{store: store}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	id, err := r.store.Add(ctx, ReviewsCollection, docstore.Fields{
		fieldBusinessID:         review.BusinessID,
		reviewFieldRating:       review.Rating,
		reviewFieldText:         review.ReviewText,
		reviewFieldReviewerName: review.ReviewerName,
		fieldStatus:             string(review.Status),
		fieldCreatedAt:          docstore.FormatTime(review.CreatedAt),
	})
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

// ListRecent returns at most limit reviews, newest first.
func (r *reviewRepository) ListRecent(ctx context.Context, businessID string, limit int) ([]domain.Review, error) {
	q := docstore.Where(fieldBusinessID, businessID).OrderDesc(fieldCreatedAt).WithLimit(limit)
	docs, err := r.store.Query(ctx, ReviewsCollection, q)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Review, 0, len(docs))
	for _, doc := range docs {
		result = append(result, domain.Review{
			ID:           doc.ID,
			BusinessID:   getString(doc.Fields, fieldBusinessID),
			Rating:       getInt(doc.Fields, reviewFieldRating),
			ReviewText:   getString(doc.Fields, reviewFieldText),
			ReviewerName: getString(doc.Fields, reviewFieldReviewerName),
			Status:       domain.ReviewStatus(getString(doc.Fields, fieldStatus)),
			CreatedAt:    getTime(doc.Fields, fieldCreatedAt),
		})
	}
	return result, nil
}
