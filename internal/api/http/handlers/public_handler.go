package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/api/dto"
	"github.com/spec-kit/shop-directory/internal/service"
)

// PublicHandler exposes customer-facing reads and review submission.
type PublicHandler struct {
	public *service.PublicService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(public *service.PublicService) *PublicHandler {
	return &PublicHandler{public: public}
}

// GetBusiness handles GET /api/public/business/:id.
func (h *PublicHandler) GetBusiness(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	business, err := h.public.GetBusiness(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "business": dto.NewBusinessResponse(*business)})
}

// ListProducts handles GET /api/public/products/:businessId.
func (h *PublicHandler) ListProducts(c *fiber.Ctx) error {
	businessID, err := pathParam(c, "businessId")
	if err != nil {
		return err
	}
	products, err := h.public.ListActiveProducts(c.UserContext(), businessID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "products": dto.NewProductListResponse(products)})
}

// ListReviews handles GET /api/public/reviews/:businessId.
func (h *PublicHandler) ListReviews(c *fiber.Ctx) error {
	businessID, err := pathParam(c, "businessId")
	if err != nil {
		return err
	}
	reviews, err := h.public.ListReviews(c.UserContext(), businessID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "reviews": dto.NewReviewListResponse(reviews)})
}

// CreateReview handles POST /api/public/reviews.
func (h *PublicHandler) CreateReview(c *fiber.Ctx) error {
	var req dto.CreateReviewRequest
	if err := dto.Decode(c.Body(), &req); err != nil {
		return err
	}
	review, err := h.public.CreateReview(c.UserContext(), service.ReviewCreateInput{
		BusinessID:   req.BusinessID,
		Rating:       req.Rating.String(),
		ReviewText:   req.ReviewText,
		ReviewerName: req.ReviewerName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted successfully",
		"review":  dto.NewReviewResponse(*review),
	})
}
