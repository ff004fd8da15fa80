package service

import (
	"context"
	"strings"

	"github.com/spec-kit/shop-directory/internal/domain"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/normalize"
	"github.com/spec-kit/shop-directory/internal/repository"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// DashboardService backs the owner dashboard: listing edits, product
// management and the summary statistics.
type DashboardService struct {
	businesses repository.BusinessRepository
	products   repository.ProductRepository
	metrics    *PlaceholderMetrics
	dispatcher events.Dispatcher
	now        Clock
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	BusinessRepo repository.BusinessRepository
	ProductRepo  repository.ProductRepository
	Metrics      *PlaceholderMetrics
	Dispatcher   events.Dispatcher
	Clock        Clock
}

// ProductCreateInput describes a new product. Price is the raw client value.
type ProductCreateInput struct {
	BusinessID  string
	Name        string
	Price       string
	Category    string
	Description string
	Image       *string
}

// ProductUpdateInput lists the mutable product fields. Nil means unchanged.
type ProductUpdateInput struct {
	Name        *string
	Price       *string
	Category    *string
	Description *string
	Image       *string
	Status      *string
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	return &DashboardService{
		businesses: deps.BusinessRepo,
		products:   deps.ProductRepo,
		metrics:    deps.Metrics,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// GetBusinessByOwner returns the listing owned by email.
func (s *DashboardService) GetBusinessByOwner(ctx context.Context, actor *Actor, email string) (*domain.Business, error) {
	owner := normalize.Email(email)
	if owner == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if actor != nil && normalize.Email(actor.Email) != owner {
		return nil, apperrors.NewForbidden("cannot view another owner's business")
	}
	business, err := s.businesses.FindByOwner(ctx, owner)
	if err != nil {
		return nil, storeError("business", "find owner business", err)
	}
	return business, nil
}

// UpdateBusiness applies patch and returns the stored result. Owner and
// creation time are not part of BusinessPatch and cannot change.
func (s *DashboardService) UpdateBusiness(ctx context.Context, actor *Actor, id string, patch domain.BusinessPatch) (*domain.Business, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"name", patch.Name},
		{"category", patch.Category},
		{"description", patch.Description},
		{"city", patch.City},
		{"province", patch.Province},
		{"phone", patch.Phone},
	}
	for _, f := range required {
		if err := notBlank(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	patch.Name = trimmed(patch.Name)
	patch.Category = trimmed(patch.Category)
	patch.Description = trimmed(patch.Description)
	patch.City = trimmed(patch.City)
	patch.Province = trimmed(patch.Province)
	patch.Phone = trimmed(patch.Phone)
	patch.Email = trimmed(patch.Email)
	patch.Website = trimmed(patch.Website)

	if err := s.businesses.Update(ctx, id, patch, s.now()); err != nil {
		return nil, storeError("business", "update business", err)
	}
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("business", "reload business", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventBusinessUpdated,
		BusinessID: id,
		SubjectID:  id,
	})
	return business, nil
}

// ListProducts returns every product of the business, newest first.
func (s *DashboardService) ListProducts(ctx context.Context, actor *Actor, businessID string) ([]domain.Product, error) {
	if _, err := s.authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}
	products, err := s.products.ListByBusiness(ctx, businessID, false)
	if err != nil {
		return nil, storeError("product", "list products", err)
	}
	return products, nil
}

// CreateProduct stores an active product. Category defaults to General.
func (s *DashboardService) CreateProduct(ctx context.Context, actor *Actor, input ProductCreateInput) (*domain.Product, error) {
	if err := requireFields(
		field{"businessId", input.BusinessID},
		field{"name", input.Name},
		field{"price", input.Price},
	); err != nil {
		return nil, err
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, actor, input.BusinessID); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultProductCategory
	}
	var image *string
	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		image = input.Image
	}

	product := &domain.Product{
		BusinessID:  strings.TrimSpace(input.BusinessID),
		Name:        strings.TrimSpace(input.Name),
		Price:       price,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Image:       image,
		Status:      domain.ProductStatusActive,
		CreatedAt:   s.now(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, storeError("product", "create product", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventProductCreated,
		BusinessID: product.BusinessID,
		SubjectID:  product.ID,
		Payload:    events.ProductChangedPayload{Name: product.Name},
	})
	return product, nil
}

// UpdateProduct applies input and returns the stored result.
func (s *DashboardService) UpdateProduct(ctx context.Context, actor *Actor, id string, input ProductUpdateInput) (*domain.Product, error) {
	patch, err := productPatchFrom(input)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeProduct(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, id, patch, s.now()); err != nil {
		return nil, storeError("product", "update product", err)
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("product", "reload product", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventProductUpdated,
		BusinessID: product.BusinessID,
		SubjectID:  product.ID,
		Payload:    events.ProductChangedPayload{Name: product.Name},
	})
	return product, nil
}

// DeleteProduct removes a product. A missing id is a not-found error.
func (s *DashboardService) DeleteProduct(ctx context.Context, actor *Actor, id string) error {
	if err := s.authorizeProduct(ctx, actor, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return storeError("product", "delete product", err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventProductDeleted,
		SubjectID: id,
	})
	return nil
}

// GetStats counts the business's products. ProfileViews and CustomerLeads
// are placeholders from PlaceholderMetrics.
func (s *DashboardService) GetStats(ctx context.Context, actor *Actor, businessID string) (*domain.BusinessStats, error) {
	if _, err := s.authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}
	total, err := s.products.CountByBusiness(ctx, businessID, nil)
	if err != nil {
		return nil, storeError("product", "count products", err)
	}
	active := domain.ProductStatusActive
	activeCount, err := s.products.CountByBusiness(ctx, businessID, &active)
	if err != nil {
		return nil, storeError("product", "count active products", err)
	}

	stats := &domain.BusinessStats{TotalProducts: total, ActiveProducts: activeCount}
	if s.metrics != nil {
		stats.ProfileViews = s.metrics.ProfileViews()
		stats.CustomerLeads = s.metrics.CustomerLeads()
	}
	return stats, nil
}

// authorize loads the business when an actor is present and checks that the
// actor owns it.
func (s *DashboardService) authorize(ctx context.Context, actor *Actor, businessID string) (*domain.Business, error) {
	if actor == nil {
		return nil, nil
	}
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, storeError("business", "load business", err)
	}
	if normalize.Email(actor.Email) != business.OwnerEmail {
		return nil, apperrors.NewForbidden("business belongs to another owner")
	}
	return business, nil
}

func (s *DashboardService) authorizeProduct(ctx context.Context, actor *Actor, productID string) error {
	if actor == nil {
		return nil
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return storeError("product", "load product", err)
	}
	_, err = s.authorize(ctx, actor, product.BusinessID)
	return err
}

func productPatchFrom(input ProductUpdateInput) (domain.ProductPatch, error) {
	if err := notBlank("name", input.Name); err != nil {
		return domain.ProductPatch{}, err
	}
	patch := domain.ProductPatch{
		Name:        trimmed(input.Name),
		Category:    trimmed(input.Category),
		Description: trimmed(input.Description),
		Image:       input.Image,
	}
	if patch.Category != nil && *patch.Category == "" {
		def := domain.DefaultProductCategory
		patch.Category = &def
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return domain.ProductPatch{}, err
		}
		patch.Price = &price
	}
	if input.Status != nil {
		status := domain.ProductStatus(strings.ToLower(strings.TrimSpace(*input.Status)))
		if !status.Valid() {
			return domain.ProductPatch{}, apperrors.NewValidationError("status must be active or inactive",
				map[string]any{"status": *input.Status})
		}
		patch.Status = &status
	}
	return patch, nil
}

func (s *DashboardService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now()
	s.dispatcher.Publish(ctx, event)
}
