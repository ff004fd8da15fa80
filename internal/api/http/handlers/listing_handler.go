package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/api/dto"
	"github.com/spec-kit/shop-directory/internal/service"
)

// ListingHandler exposes business registration and directory listing.
type ListingHandler struct {
	listings *service.ListingService
}

// NewListingHandler constructs handler.
func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create handles POST /api/businesses.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBusinessRequest
	if err := dto.Decode(c.Body(), &req); err != nil {
		return err
	}

	business, err := h.listings.CreateBusiness(c.UserContext(), service.BusinessCreateInput{
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		City:              req.City,
		Province:          req.Province,
		Phone:             req.Phone,
		Email:             req.Email,
		Website:           req.Website,
		Logo:              req.Logo,
		OwnerEmail:        req.OwnerEmail,
		ClearanceUploaded: dto.Truthy(req.PoliceClearance),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Business created successfully",
		"business": dto.NewBusinessResponse(*business),
	})
}

// List handles GET /api/businesses.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	businesses, err := h.listings.ListBusinesses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"businesses": dto.NewBusinessListResponse(businesses),
	})
}

// CheckOwner handles GET /api/businesses/check/:email.
func (h *ListingHandler) CheckOwner(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	business, err := h.listings.CheckOwnerHasBusiness(c.UserContext(), email)
	if err != nil {
		return err
	}

	body := fiber.Map{"success": true, "hasBusiness": business != nil}
	if business != nil {
		body["business"] = dto.NewBusinessResponse(*business)
	}
	return c.JSON(body)
}
