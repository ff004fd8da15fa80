package dto

import (
	"encoding/json"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

var productProtectedFields = []string{"id", "businessId", "createdAt", "updatedAt"}

var productPatchFields = []string{"name", "price", "category", "description", "image", "status"}

// CreateProductRequest payload. Price may be a number or a numeric string.
type CreateProductRequest struct {
	BusinessID  string     `json:"businessId"`
	Name        string     `json:"name"`
	Price       FlexString `json:"price"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Image       *string    `json:"image"`
}

// UpdateProductRequest is the allow-listed product patch.
type UpdateProductRequest struct {
	Name        *string         `json:"name"`
	Price       *FlexString     `json:"price"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	Image       json.RawMessage `json:"image"`
	Status      *string         `json:"status"`
}

// ProductPatch is a decoded product update. Price stays raw so the service
// can validate it.
type ProductPatch struct {
	Name        *string
	Price       *string
	Category    *string
	Description *string
	Image       *string
	Status      *string
}

// ProductResponse is the public shape of a Product.
type ProductResponse struct {
	ID          string  `json:"id"`
	BusinessID  string  `json:"businessId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt,omitempty"`
}

// DecodeProductPatch parses a product update body.
func DecodeProductPatch(body []byte) (ProductPatch, error) {
	var req UpdateProductRequest
	if err := decodePatch(body, productProtectedFields, productPatchFields, &req); err != nil {
		return ProductPatch{}, err
	}
	patch := ProductPatch{
		Name:        req.Name,
		Price:       req.Price.Ptr(),
		Category:    req.Category,
		Description: req.Description,
		Status:      req.Status,
	}
	if len(req.Image) > 0 {
		image, err := clearableString("image", req.Image)
		if err != nil {
			return ProductPatch{}, err
		}
		patch.Image = &image
	}
	return patch, nil
}

// NewProductResponse maps a domain product.
func NewProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Status:      string(p.Status),
		CreatedAt:   docstore.FormatTime(p.CreatedAt),
	}
	if p.UpdatedAt != nil {
		updated := docstore.FormatTime(*p.UpdatedAt)
		resp.UpdatedAt = &updated
	}
	return resp
}

// NewProductListResponse maps a slice of products.
func NewProductListResponse(items []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewProductResponse(p))
	}
	return out
}
