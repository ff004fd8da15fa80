package repository

import (
	"context"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
)

const (
	userFieldFirstName    = "firstName"
	userFieldLastName     = "lastName"
	userFieldEmail        = "email"
	userFieldPasswordHash = "passwordHash"
)

// UserRepository defines persistence access for shop owner accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	store docstore.Store
}

// NewUserRepository returns a document-store backed implementation.
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	id, err := r.store.Add(ctx, UsersCollection, docstore.Fields{
		userFieldFirstName:    user.FirstName,
		userFieldLastName:     user.LastName,
		userFieldEmail:        user.Email,
		userFieldPasswordHash: user.PasswordHash,
		fieldCreatedAt:        docstore.FormatTime(user.CreatedAt),
	})
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	docs, err := r.store.Query(ctx, UsersCollection, docstore.Query{})
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, userFromDocument(&docs[i]))
	}
	return users, nil
}

// GetByEmail returns docstore.ErrNotFound when no account uses the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	docs, err := r.store.Query(ctx, UsersCollection, docstore.Where(userFieldEmail, email).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	user := userFromDocument(&docs[0])
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.store.Count(ctx, UsersCollection, docstore.Filter{Field: userFieldEmail, Value: email})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func userFromDocument(doc *docstore.Document) domain.User {
	return domain.User{
		ID:           doc.ID,
		FirstName:    getString(doc.Fields, userFieldFirstName),
		LastName:     getString(doc.Fields, userFieldLastName),
		Email:        getString(doc.Fields, userFieldEmail),
		PasswordHash: getString(doc.Fields, userFieldPasswordHash),
		CreatedAt:    getTime(doc.Fields, fieldCreatedAt),
	}
}
