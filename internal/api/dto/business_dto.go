package dto

import (
	"bytes"
	"encoding/json"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// Keys silently dropped from a business patch.
var businessProtectedFields = []string{"id", "ownerEmail", "createdAt", "updatedAt", "status"}

// Keys a business patch may carry.
var businessPatchFields = []string{
	"name", "category", "description", "city", "province",
	"phone", "email", "website", "logo", "policeClearance",
}

// CreateBusinessRequest payload. PoliceClearance is only checked for presence.
type CreateBusinessRequest struct {
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	City            string          `json:"city"`
	Province        string          `json:"province"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Website         string          `json:"website"`
	Logo            *string         `json:"logo"`
	PoliceClearance json.RawMessage `json:"policeClearance"`
	OwnerEmail      string          `json:"ownerEmail"`
}

// UpdateBusinessRequest is the allow-listed business patch.
type UpdateBusinessRequest struct {
	Name            *string         `json:"name"`
	Category        *string         `json:"category"`
	Description     *string         `json:"description"`
	City            *string         `json:"city"`
	Province        *string         `json:"province"`
	Phone           *string         `json:"phone"`
	Email           *string         `json:"email"`
	Website         *string         `json:"website"`
	Logo            json.RawMessage `json:"logo"`
	PoliceClearance json.RawMessage `json:"policeClearance"`
}

// BusinessResponse is the public shape of a Business.
type BusinessResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	City            string  `json:"city"`
	Province        string  `json:"province"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Website         string  `json:"website"`
	Logo            *string `json:"logo"`
	PoliceClearance string  `json:"policeClearance"`
	OwnerEmail      string  `json:"ownerEmail"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       *string `json:"updatedAt,omitempty"`
}

// DecodeBusinessPatch parses a business update body. Protected keys are
// dropped, other unknown keys are rejected.
func DecodeBusinessPatch(body []byte) (domain.BusinessPatch, error) {
	var req UpdateBusinessRequest
	if err := decodePatch(body, businessProtectedFields, businessPatchFields, &req); err != nil {
		return domain.BusinessPatch{}, err
	}

	patch := domain.BusinessPatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		City:        req.City,
		Province:    req.Province,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
	}
	if len(req.Logo) > 0 {
		logo, err := clearableString("logo", req.Logo)
		if err != nil {
			return domain.BusinessPatch{}, err
		}
		patch.Logo = &logo
	}
	if len(req.PoliceClearance) > 0 {
		uploaded := Truthy(req.PoliceClearance)
		patch.ClearanceUploaded = &uploaded
	}
	return patch, nil
}

// clearableString reads a string field where null means "clear".
func clearableString(name string, raw json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperrors.NewValidationError(name+" must be a string or null", map[string]any{"field": name})
	}
	return s, nil
}

// NewBusinessResponse maps a domain business.
func NewBusinessResponse(b domain.Business) BusinessResponse {
	resp := BusinessResponse{
		ID:              b.ID,
		Name:            b.Name,
		Category:        b.Category,
		Description:     b.Description,
		City:            b.City,
		Province:        b.Province,
		Phone:           b.Phone,
		Email:           b.Email,
		Website:         b.Website,
		Logo:            b.Logo,
		PoliceClearance: b.PoliceClearance,
		OwnerEmail:      b.OwnerEmail,
		Status:          string(b.Status),
		CreatedAt:       docstore.FormatTime(b.CreatedAt),
	}
	if b.UpdatedAt != nil {
		updated := docstore.FormatTime(*b.UpdatedAt)
		resp.UpdatedAt = &updated
	}
	return resp
}

// NewBusinessListResponse maps a slice of businesses.
func NewBusinessListResponse(items []domain.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(items))
	for _, b := range items {
		out = append(out, NewBusinessResponse(b))
	}
	return out
}
