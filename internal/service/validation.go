package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// Clock returns the current time. Services stamp createdAt/updatedAt with it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// Actor is the authenticated owner performing a dashboard call.
// A nil Actor means ownership is not enforced.
type Actor struct {
	Email string
}

type field struct {
	name  string
	value string
}

// requireFields fails with a validation error naming every blank field.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

// parsePrice accepts a decimal number in string form. Non-numeric, infinite,
// NaN and negative prices are rejected.
func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperrors.NewValidationError("price must be a number", map[string]any{"price": raw})
	}
	if price < 0 {
		return 0, apperrors.NewValidationError("price must not be negative", map[string]any{"price": raw})
	}
	return price, nil
}

// parseRating accepts an integer rating in [MinRating, MaxRating]. Integral
// decimals such as "4.0" are accepted.
func parseRating(raw string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value != math.Trunc(value) || math.IsInf(value, 0) {
		return 0, apperrors.NewValidationError("rating must be an integer", map[string]any{"rating": raw})
	}
	rating := int(value)
	if rating < domain.MinRating || rating > domain.MaxRating {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
			map[string]any{"rating": raw})
	}
	return rating, nil
}

// notBlank rejects a patch that would clear a required field.
func notBlank(name string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return apperrors.NewValidationError(name+" cannot be empty", map[string]any{"field": name})
	}
	return nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// storeError maps docstore.ErrNotFound to a 404 for resource and wraps
// anything else as a store failure.
func storeError(resource, op string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewStoreError(fmt.Errorf("%s: %w", op, err))
}
