package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/api/dto"
	"github.com/spec-kit/shop-directory/internal/service"
)

// AccountHandler exposes registration, login and the user listing.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := dto.Decode(c.Body(), &req); err != nil {
		return err
	}

	id, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"userId":  id,
	})
}

// ListUsers handles GET /api/users.
func (h *AccountHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"success": true, "users": resp})
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := dto.Decode(c.Body(), &req); err != nil {
		return err
	}

	result, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	body := fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    dto.NewLoginUserResponse(result.User),
	}
	if token := dto.NewTokenResponse(result.Token); token != nil {
		body["token"] = token
	}
	return c.JSON(body)
}
