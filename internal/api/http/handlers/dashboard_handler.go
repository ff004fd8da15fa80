package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/api/dto"
	"github.com/spec-kit/shop-directory/internal/service"
)

// DashboardHandler exposes the owner dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetBusiness handles GET /api/dashboard/business/:email.
func (h *DashboardHandler) GetBusiness(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return err
	}
	business, err := h.dashboard.GetBusinessByOwner(c.UserContext(), actorFrom(c), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "business": dto.NewBusinessResponse(*business)})
}

// UpdateBusiness handles PUT /api/dashboard/business/:id.
func (h *DashboardHandler) UpdateBusiness(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	patch, err := dto.DecodeBusinessPatch(c.Body())
	if err != nil {
		return err
	}
	business, err := h.dashboard.UpdateBusiness(c.UserContext(), actorFrom(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Business updated successfully",
		"business": dto.NewBusinessResponse(*business),
	})
}

// ListProducts handles GET /api/dashboard/products/:businessId.
func (h *DashboardHandler) ListProducts(c *fiber.Ctx) error {
	businessID, err := pathParam(c, "businessId")
	if err != nil {
		return err
	}
	products, err := h.dashboard.ListProducts(c.UserContext(), actorFrom(c), businessID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "products": dto.NewProductListResponse(products)})
}

// CreateProduct handles POST /api/dashboard/products.
func (h *DashboardHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := dto.Decode(c.Body(), &req); err != nil {
		return err
	}
	product, err := h.dashboard.CreateProduct(c.UserContext(), actorFrom(c), service.ProductCreateInput{
		BusinessID:  req.BusinessID,
		Name:        req.Name,
		Price:       req.Price.String(),
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"product": dto.NewProductResponse(*product),
	})
}

// UpdateProduct handles PUT /api/dashboard/products/:id.
func (h *DashboardHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	patch, err := dto.DecodeProductPatch(c.Body())
	if err != nil {
		return err
	}
	product, err := h.dashboard.UpdateProduct(c.UserContext(), actorFrom(c), id, service.ProductUpdateInput{
		Name:        patch.Name,
		Price:       patch.Price,
		Category:    patch.Category,
		Description: patch.Description,
		Image:       patch.Image,
		Status:      patch.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": dto.NewProductResponse(*product),
	})
}

// DeleteProduct handles DELETE /api/dashboard/products/:id.
func (h *DashboardHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.dashboard.DeleteProduct(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

// Stats handles GET /api/dashboard/stats/:businessId.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	businessID, err := pathParam(c, "businessId")
	if err != nil {
		return err
	}
	stats, err := h.dashboard.GetStats(c.UserContext(), actorFrom(c), businessID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"stats":       dto.NewStatsResponse(*stats),
		"placeholder": service.PlaceholderFields,
	})
}
