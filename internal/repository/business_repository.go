package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

const (
	businessFieldName            = "name"
	businessFieldCategory        = "category"
	businessFieldDescription     = "description"
	businessFieldCity            = "city"
	businessFieldProvince        = "province"
	businessFieldPhone           = "phone"
	businessFieldEmail           = "email"
	businessFieldWebsite         = "website"
	businessFieldLogo            = "logo"
	businessFieldPoliceClearance = "policeClearance"
	businessFieldOwnerEmail      = "ownerEmail"
)

// BusinessRepository manages business listings.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	List(ctx context.Context) ([]domain.Business, error)
	FindByOwner(ctx context.Context, ownerEmail string) (*domain.Business, error)
	Update(ctx context.Context, id string, patch domain.BusinessPatch, updatedAt time.Time) error
}

type businessRepository struct {
	store docstore.Store
}

// NewBusinessRepository builds the repository.
func NewBusinessRepository(store docstore.Store) BusinessRepository {
	return &businessRepository{store: store}
}

func (r *businessRepository) Create(ctx context.Context, b *domain.Business) error {
	id, err := r.store.Add(ctx, BusinessesCollection, docstore.Fields{
		businessFieldName:            b.Name,
		businessFieldCategory:        b.Category,
		businessFieldDescription:     b.Description,
		businessFieldCity:            b.City,
		businessFieldProvince:        b.Province,
		businessFieldPhone:           b.Phone,
		businessFieldEmail:           b.Email,
		businessFieldWebsite:         b.Website,
		businessFieldLogo:            nullable(b.Logo),
		businessFieldPoliceClearance: b.PoliceClearance,
		businessFieldOwnerEmail:      b.OwnerEmail,
		fieldStatus:                  string(b.Status),
		fieldCreatedAt:               docstore.FormatTime(b.CreatedAt),
	})
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	doc, err := r.store.Get(ctx, BusinessesCollection, id)
	if err != nil {
		return nil, err
	}
	b := businessFromDocument(doc)
	return &b, nil
}

func (r *businessRepository) List(ctx context.Context) ([]domain.Business, error) {
	docs, err := r.store.Query(ctx, BusinessesCollection, docstore.Query{})
	if err != nil {
		return nil, err
	}
	result := make([]domain.Business, 0, len(docs))
	for i := range docs {
		result = append(result, businessFromDocument(&docs[i]))
	}
	return result, nil
}

// FindByOwner returns docstore.ErrNotFound when the owner has no listing.
func (r *businessRepository) FindByOwner(ctx context.Context, ownerEmail string) (*domain.Business, error) {
	docs, err := r.store.Query(ctx, BusinessesCollection, docstore.Where(businessFieldOwnerEmail, ownerEmail).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	b := businessFromDocument(&docs[0])
	return &b, nil
}

func (r *businessRepository) Update(ctx context.Context, id string, p domain.BusinessPatch, updatedAt time.Time) error {
	fields := docstore.Fields{fieldUpdatedAt: docstore.FormatTime(updatedAt)}
	setString(fields, businessFieldName, p.Name)
	setString(fields, businessFieldCategory, p.Category)
	setString(fields, businessFieldDescription, p.Description)
	setString(fields, businessFieldCity, p.City)
	setString(fields, businessFieldProvince, p.Province)
	setString(fields, businessFieldPhone, p.Phone)
	setString(fields, businessFieldEmail, p.Email)
	setString(fields, businessFieldWebsite, p.Website)
	if p.Logo != nil {
		fields[businessFieldLogo] = nullable(p.Logo)
	}
	if p.ClearanceUploaded != nil {
		fields[businessFieldPoliceClearance] = domain.ClearanceFor(*p.ClearanceUploaded)
	}
	return r.store.Update(ctx, BusinessesCollection, id, fields)
}

func setString(fields docstore.Fields, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}

func businessFromDocument(doc *docstore.Document) domain.Business {
	return domain.Business{
		ID:              doc.ID,
		Name:            getString(doc.Fields, businessFieldName),
		Category:        getString(doc.Fields, businessFieldCategory),
		Description:     getString(doc.Fields, businessFieldDescription),
		City:            getString(doc.Fields, businessFieldCity),
		Province:        getString(doc.Fields, businessFieldProvince),
		Phone:           getString(doc.Fields, businessFieldPhone),
		Email:           getString(doc.Fields, businessFieldEmail),
		Website:         getString(doc.Fields, businessFieldWebsite),
		Logo:            getOptionalString(doc.Fields, businessFieldLogo),
		PoliceClearance: getString(doc.Fields, businessFieldPoliceClearance),
		OwnerEmail:      getString(doc.Fields, businessFieldOwnerEmail),
		Status:          domain.BusinessStatus(getString(doc.Fields, fieldStatus)),
		CreatedAt:       getTime(doc.Fields, fieldCreatedAt),
		UpdatedAt:       getOptionalTime(doc.Fields, fieldUpdatedAt),
	}
}
