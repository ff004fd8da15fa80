package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/guard"
	"github.com/spec-kit/shop-directory/internal/normalize"
	"github.com/spec-kit/shop-directory/internal/repository"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

const accountClaimPrefix = "users:email:"

var errInvalidCredentials = apperrors.NewUnauthorized("invalid email or password")

// AccountService handles owner registration and login.
type AccountService struct {
	users      repository.UserRepository
	guard      guard.Guard
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	now        Clock
}

// AccountDependencies bundles collaborators for the account service.
// Tokens is nil when token auth is disabled.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Guard      guard.Guard
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	BcryptCost int
	Clock      Clock
}

// RegisterInput describes a new owner account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult is the outcome of a successful login. Token is nil when
// token auth is disabled.
type LoginResult struct {
	User  domain.LoginProfile
	Token *domain.AccessToken
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	g := deps.Guard
	if g == nil {
		g = guard.NewLocal()
	}
	return &AccountService{
		users:      deps.UserRepo,
		guard:      g,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		now:        now,
	}
}

// Register creates an account and returns its id. Emails are unique after
// normalization.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if err := requireFields(
		field{"firstName", input.FirstName},
		field{"lastName", input.LastName},
		field{"email", input.Email},
		field{"password", input.Password},
	); err != nil {
		return "", err
	}
	email := normalize.Email(input.Email)

	release, err := s.guard.Acquire(ctx, accountClaimPrefix+email)
	if err != nil {
		if errors.Is(err, guard.ErrClaimed) {
			return "", apperrors.NewConflict("user already exists", map[string]any{"email": email})
		}
		return "", apperrors.NewInternalError(err)
	}
	defer release()

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", storeError("user", "check email", err)
	}
	if exists {
		return "", apperrors.NewConflict("user already exists", map[string]any{"email": email})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", storeError("user", "create user", err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Payload:   events.UserRegisteredPayload{Email: user.Email},
	})
	return user.ID, nil
}

// ListUsers returns every account. Callers must not expose PasswordHash.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError("user", "list users", err)
	}
	return users, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := requireFields(field{"email", email}, field{"password", password}); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, storeError("user", "find user", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}

	result := &LoginResult{
		User: domain.LoginProfile{ID: user.ID, FirstName: user.FirstName, Email: user.Email},
	}
	if s.tokens != nil {
		token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		result.Token = &domain.AccessToken{
			Token:     token,
			Subject:   user.ID,
			Email:     user.Email,
			ExpiresAt: expiresAt,
		}
	}
	return result, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now()
	s.dispatcher.Publish(ctx, event)
}
