package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/guard"
	"github.com/spec-kit/shop-directory/internal/normalize"
	"github.com/spec-kit/shop-directory/internal/repository"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

const ownerClaimPrefix = "businesses:owner:"

// ListingService registers businesses and answers directory-wide listing queries.
type ListingService struct {
	businesses repository.BusinessRepository
	guard      guard.Guard
	dispatcher events.Dispatcher
	now        Clock
}

// ListingDependencies bundles collaborators for the listing service.
type ListingDependencies struct {
	BusinessRepo repository.BusinessRepository
	Guard        guard.Guard
	Dispatcher   events.Dispatcher
	Clock        Clock
}

// BusinessCreateInput describes a business registration. ClearanceUploaded
// records whether a police clearance document accompanied the request.
type BusinessCreateInput struct {
	Name              string
	Category          string
	Description       string
	City              string
	Province          string
	Phone             string
	Email             string
	Website           string
	Logo              *string
	OwnerEmail        string
	ClearanceUploaded bool
}

// NewListingService constructs the service.
func NewListingService(deps ListingDependencies) *ListingService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	g := deps.Guard
	if g == nil {
		g = guard.NewLocal()
	}
	return &ListingService{
		businesses: deps.BusinessRepo,
		guard:      g,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateBusiness stores a pending listing. The owner defaults to the contact
// email and may hold at most one listing.
func (s *ListingService) CreateBusiness(ctx context.Context, input BusinessCreateInput) (*domain.Business, error) {
	if err := requireFields(
		field{"name", input.Name},
		field{"category", input.Category},
		field{"description", input.Description},
		field{"city", input.City},
		field{"province", input.Province},
		field{"phone", input.Phone},
	); err != nil {
		return nil, err
	}

	owner := normalize.Email(input.OwnerEmail)
	if owner == "" {
		owner = normalize.Email(input.Email)
	}

	if owner != "" {
		release, err := s.guard.Acquire(ctx, ownerClaimPrefix+owner)
		if err != nil {
			if errors.Is(err, guard.ErrClaimed) {
				return nil, apperrors.NewConflict("business already registered for owner", map[string]any{"ownerEmail": owner})
			}
			return nil, apperrors.NewInternalError(err)
		}
		defer release()

		_, err = s.businesses.FindByOwner(ctx, owner)
		switch {
		case err == nil:
			return nil, apperrors.NewConflict("business already registered for owner", map[string]any{"ownerEmail": owner})
		case !errors.Is(err, docstore.ErrNotFound):
			return nil, storeError("business", "find owner business", err)
		}
	}

	var logo *string
	if input.Logo != nil && strings.TrimSpace(*input.Logo) != "" {
		logo = input.Logo
	}

	business := &domain.Business{
		Name:            strings.TrimSpace(input.Name),
		Category:        strings.TrimSpace(input.Category),
		Description:     strings.TrimSpace(input.Description),
		City:            strings.TrimSpace(input.City),
		Province:        strings.TrimSpace(input.Province),
		Phone:           strings.TrimSpace(input.Phone),
		Email:           strings.TrimSpace(input.Email),
		Website:         strings.TrimSpace(input.Website),
		Logo:            logo,
		PoliceClearance: domain.ClearanceFor(input.ClearanceUploaded),
		OwnerEmail:      owner,
		Status:          domain.BusinessStatusPending,
		CreatedAt:       s.now(),
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, storeError("business", "create business", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventBusinessCreated,
		BusinessID: business.ID,
		SubjectID:  business.ID,
		Payload: events.BusinessCreatedPayload{
			Name:       business.Name,
			OwnerEmail: business.OwnerEmail,
			Category:   business.Category,
			City:       business.City,
		},
	})
	return business, nil
}

// ListBusinesses returns every listing regardless of status.
func (s *ListingService) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	businesses, err := s.businesses.List(ctx)
	if err != nil {
		return nil, storeError("business", "list businesses", err)
	}
	return businesses, nil
}

// CheckOwnerHasBusiness returns the owner's listing, or nil when there is none.
func (s *ListingService) CheckOwnerHasBusiness(ctx context.Context, email string) (*domain.Business, error) {
	if err := requireFields(field{"email", email}); err != nil {
		return nil, err
	}
	business, err := s.businesses.FindByOwner(ctx, normalize.Email(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError("business", "find owner business", err)
	}
	return business, nil
}

func (s *ListingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now()
	s.dispatcher.Publish(ctx, event)
}
