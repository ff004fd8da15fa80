package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

const (
	productFieldName        = "name"
	productFieldPrice       = "price"
	productFieldCategory    = "category"
	productFieldDescription = "description"
	productFieldImage       = "image"
)

// ProductRepository manages the products of each business.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]domain.Product, error)
	CountByBusiness(ctx context.Context, businessID string, status *domain.ProductStatus) (int64, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	store docstore.Store
}

// NewProductRepository builds the repository.
func NewProductRepository(store docstore.Store) ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	id, err := r.store.Add(ctx, ProductsCollection, docstore.Fields{
		fieldBusinessID:         p.BusinessID,
		productFieldName:        p.Name,
		productFieldPrice:       p.Price,
		productFieldCategory:    p.Category,
		productFieldDescription: p.Description,
		productFieldImage:       nullable(p.Image),
		fieldStatus:             string(p.Status),
		fieldCreatedAt:          docstore.FormatTime(p.CreatedAt),
	})
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.store.Get(ctx, ProductsCollection, id)
	if err != nil {
		return nil, err
	}
	p := productFromDocument(doc)
	return &p, nil
}

// ListByBusiness returns the products of a business, newest first.
func (r *productRepository) ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]domain.Product, error) {
	q := docstore.Where(fieldBusinessID, businessID)
	if activeOnly {
		q = q.And(fieldStatus, string(domain.ProductStatusActive))
	}
	docs, err := r.store.Query(ctx, ProductsCollection, q.OrderDesc(fieldCreatedAt))
	if err != nil {
		return nil, err
	}
	result := make([]domain.Product, 0, len(docs))
	for i := range docs {
		result = append(result, productFromDocument(&docs[i]))
	}
	return result, nil
}

func (r *productRepository) CountByBusiness(ctx context.Context, businessID string, status *domain.ProductStatus) (int64, error) {
	filters := []docstore.Filter{{Field: fieldBusinessID, Value: businessID}}
	if status != nil {
		filters = append(filters, docstore.Filter{Field: fieldStatus, Value: string(*status)})
	}
	return r.store.Count(ctx, ProductsCollection, filters...)
}

func (r *productRepository) Update(ctx context.Context, id string, p domain.ProductPatch, updatedAt time.Time) error {
	fields := docstore.Fields{fieldUpdatedAt: docstore.FormatTime(updatedAt)}
	setString(fields, productFieldName, p.Name)
	setString(fields, productFieldCategory, p.Category)
	setString(fields, productFieldDescription, p.Description)
	if p.Price != nil {
		fields[productFieldPrice] = *p.Price
	}
	if p.Image != nil {
		fields[productFieldImage] = nullable(p.Image)
	}
	if p.Status != nil {
		fields[fieldStatus] = string(*p.Status)
	}
	return r.store.Update(ctx, ProductsCollection, id, fields)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ProductsCollection, id)
}

func productFromDocument(doc *docstore.Document) domain.Product {
	return domain.Product{
		ID:          doc.ID,
		BusinessID:  getString(doc.Fields, fieldBusinessID),
		Name:        getString(doc.Fields, productFieldName),
		Price:       getFloat(doc.Fields, productFieldPrice),
		Category:    getString(doc.Fields, productFieldCategory),
		Description: getString(doc.Fields, productFieldDescription),
		Image:       getOptionalString(doc.Fields, productFieldImage),
		Status:      domain.ProductStatus(getString(doc.Fields, fieldStatus)),
		CreatedAt:   getTime(doc.Fields, fieldCreatedAt),
		UpdatedAt:   getOptionalTime(doc.Fields, fieldUpdatedAt),
	}
}
