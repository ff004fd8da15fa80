package dto

import (
	"time"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

// RegisterRequest payload for new owner accounts.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is a User without its password hash.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// LoginUserResponse is the profile returned by login.
type LoginUserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

// TokenResponse carries a bearer token when token auth is enabled.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: docstore.FormatTime(u.CreatedAt),
	}
}

// NewLoginUserResponse maps a login profile.
func NewLoginUserResponse(p domain.LoginProfile) LoginUserResponse {
	return LoginUserResponse{ID: p.ID, FirstName: p.FirstName, Email: p.Email}
}

// NewTokenResponse maps an access token; nil in, nil out.
func NewTokenResponse(t *domain.AccessToken) *TokenResponse {
	if t == nil {
		return nil
	}
	return &TokenResponse{AccessToken: t.Token, TokenType: "Bearer", ExpiresAt: t.ExpiresAt}
}
