package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/config"
	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/domain"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/guard"
	"github.com/spec-kit/shop-directory/internal/repository"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

var testStats = config.StatsConfig{ViewsMin: 500, ViewsMax: 2500, LeadsMin: 10, LeadsMax: 60}

type testEnv struct {
	accounts  *AccountService
	listings  *ListingService
	dashboard *DashboardService
	public    *PublicService
	events    []events.Event
	mu        sync.Mutex
}

// steppingClock advances one second per call so createdAt values are distinct.
func steppingClock() Clock {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestEnv(t *testing.T, tokens *auth.TokenManager) *testEnv {
	t.Helper()
	store := docstore.NewMemoryStore()
	users := repository.NewUserRepository(store)
	businesses := repository.NewBusinessRepository(store)
	products := repository.NewProductRepository(store)
	reviews := repository.NewReviewRepository(store)
	dispatcher := events.NewInMemoryDispatcher(nil)
	clock := steppingClock()
	claims := guard.NewLocal()

	env := &testEnv{}
	record := func(_ context.Context, e events.Event) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.events = append(env.events, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventUserRegistered, events.EventBusinessCreated, events.EventBusinessUpdated,
		events.EventProductCreated, events.EventProductUpdated, events.EventProductDeleted,
		events.EventReviewSubmitted,
	} {
		dispatcher.Subscribe(et, record)
	}

	env.accounts = NewAccountService(AccountDependencies{
		UserRepo: users, Guard: claims, Tokens: tokens, Dispatcher: dispatcher,
		BcryptCost: bcrypt.MinCost, Clock: clock,
	})
	env.listings = NewListingService(ListingDependencies{
		BusinessRepo: businesses, Guard: claims, Dispatcher: dispatcher, Clock: clock,
	})
	env.dashboard = NewDashboardService(DashboardDependencies{
		BusinessRepo: businesses, ProductRepo: products, Dispatcher: dispatcher, Clock: clock,
		Metrics: NewSeededPlaceholderMetrics(testStats, 42),
	})
	env.public = NewPublicService(PublicDependencies{
		BusinessRepo: businesses, ProductRepo: products, ReviewRepo: reviews, Dispatcher: dispatcher, Clock: clock,
	})
	return env
}

func (e *testEnv) eventTypes() []events.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]events.EventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func requireStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T: %v", err, err)
	require.Equal(t, status, de.HTTPStatus, de.Message)
	return de
}

func validBusiness(owner string) BusinessCreateInput {
	return BusinessCreateInput{
		Name:        "Corner Bakery",
		Category:    "Food",
		Description: "Fresh bread daily",
		City:        "Lahore",
		Province:    "Punjab",
		Phone:       "+92 300 0000000",
		Email:       owner,
	}
}

func TestRegisterAndDuplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	id, err := env.accounts.Register(ctx, RegisterInput{
		FirstName: "Ayesha", LastName: "Khan", Email: "Ayesha@Example.com ", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = env.accounts.Register(ctx, RegisterInput{
		FirstName: "Other", LastName: "Person", Email: "ayesha@example.com", Password: "x",
	})
	requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, env.eventTypes())
}

func TestRegisterRequiresEveryField(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.accounts.Register(context.Background(), RegisterInput{FirstName: "A", Email: "a@b.c"})
	de := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"lastName", "password"}, de.Details["fields"])
}

func TestRegisterConflictsWhileClaimHeld(t *testing.T) {
	env := newTestEnv(t, nil)
	release, err := env.accounts.guard.Acquire(context.Background(), accountClaimPrefix+"busy@example.com")
	require.NoError(t, err)
	defer release()

	_, err = env.accounts.Register(context.Background(), RegisterInput{
		FirstName: "A", LastName: "B", Email: "busy@example.com", Password: "pw",
	})
	requireStatus(t, err, http.StatusConflict)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, err := env.accounts.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "plain"})
	require.NoError(t, err)

	users, err := env.accounts.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEqual(t, "plain", users[0].PasswordHash)
	assert.NoError(t, auth.ComparePassword(users[0].PasswordHash, "plain"))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id, err := env.accounts.Register(ctx, RegisterInput{FirstName: "Bilal", LastName: "Ali", Email: "bilal@example.com", Password: "pw123"})
	require.NoError(t, err)

	result, err := env.accounts.Login(ctx, "BILAL@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginProfile{ID: id, FirstName: "Bilal", Email: "bilal@example.com"}, result.User)
	assert.Nil(t, result.Token)

	_, err = env.accounts.Login(ctx, "bilal@example.com", "wrong")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = env.accounts.Login(ctx, "nobody@example.com", "pw123")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = env.accounts.Login(ctx, "", "pw123")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestLoginIssuesTokenWhenEnabled(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	env := newTestEnv(t, tokens)
	ctx := context.Background()
	id, err := env.accounts.Register(ctx, RegisterInput{FirstName: "C", LastName: "D", Email: "c@example.com", Password: "pw"})
	require.NoError(t, err)

	result, err := env.accounts.Login(ctx, "c@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, result.Token)

	claims, err := tokens.ParseToken(result.Token.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, "c@example.com", claims.Email)
}

func TestCreateBusiness(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	in := validBusiness("Owner@Example.com")
	in.ClearanceUploaded = true
	business, err := env.listings.CreateBusiness(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, business.ID)
	assert.Equal(t, domain.BusinessStatusPending, business.Status)
	assert.Equal(t, "owner@example.com", business.OwnerEmail)
	assert.Equal(t, domain.ClearanceUploaded, business.PoliceClearance)
	assert.Nil(t, business.Logo)

	found, err := env.listings.CheckOwnerHasBusiness(ctx, "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, business.ID, found.ID)

	none, err := env.listings.CheckOwnerHasBusiness(ctx, "someone@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreateBusinessValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	in := validBusiness("owner@example.com")
	in.Phone = ""
	_, err := env.listings.CreateBusiness(context.Background(), in)
	de := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"phone"}, de.Details["fields"])
}

func TestCreateBusinessOnePerOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first := validBusiness("contact@example.com")
	first.OwnerEmail = "owner@example.com"
	_, err := env.listings.CreateBusiness(ctx, first)
	require.NoError(t, err)

	second := validBusiness("owner@example.com")
	_, err = env.listings.CreateBusiness(ctx, second)
	requireStatus(t, err, http.StatusConflict)

	anonymous := validBusiness("")
	_, err = env.listings.CreateBusiness(ctx, anonymous)
	require.NoError(t, err)
	_, err = env.listings.CreateBusiness(ctx, anonymous)
	require.NoError(t, err)

	all, err := env.listings.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateBusinessKeepsImmutableFields(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	created, err := env.listings.CreateBusiness(ctx, validBusiness("owner@example.com"))
	require.NoError(t, err)

	name := "Corner Bakery & Cafe"
	logo := "data:image/png;base64,AAAA"
	uploaded := true
	updated, err := env.dashboard.UpdateBusiness(ctx, nil, created.ID, domain.BusinessPatch{
		Name: &name, Logo: &logo, ClearanceUploaded: &uploaded,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "owner@example.com", updated.OwnerEmail)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	require.NotNil(t, updated.Logo)
	assert.Equal(t, logo, *updated.Logo)
	assert.Equal(t, domain.ClearanceUploaded, updated.PoliceClearance)
	assert.Equal(t, domain.BusinessStatusPending, updated.Status)

	blank := " "
	_, err = env.dashboard.UpdateBusiness(ctx, nil, created.ID, domain.BusinessPatch{Phone: &blank})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = env.dashboard.UpdateBusiness(ctx, nil, "missing", domain.BusinessPatch{Name: &name})
	requireStatus(t, err, http.StatusNotFound)
}

func TestGetBusinessByOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	created, err := env.listings.CreateBusiness(ctx, validBusiness("owner@example.com"))
	require.NoError(t, err)

	got, err := env.dashboard.GetBusinessByOwner(ctx, nil, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = env.dashboard.GetBusinessByOwner(ctx, nil, "other@example.com")
	requireStatus(t, err, http.StatusNotFound)

	_, err = env.dashboard.GetBusinessByOwner(ctx, &Actor{Email: "other@example.com"}, "owner@example.com")
	requireStatus(t, err, http.StatusForbidden)
}

func TestCreateProductCoercesPrice(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	product, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{
		BusinessID: "b1", Name: "Sourdough", Price: "19.99",
	})
	require.NoError(t, err)
	assert.Equal(t, 19.99, product.Price)
	assert.Equal(t, domain.DefaultProductCategory, product.Category)
	assert.Equal(t, domain.ProductStatusActive, product.Status)

	for _, bad := range []string{"abc", "NaN", "-1", "Inf"} {
		_, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Name: "X", Price: bad})
		requireStatus(t, err, http.StatusBadRequest)
	}

	_, err = env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Price: "1"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Name: "Bun", Price: "2"})
	require.NoError(t, err)

	price := "2.50"
	status := "inactive"
	updated, err := env.dashboard.UpdateProduct(ctx, nil, product.ID, ProductUpdateInput{Price: &price, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Price)
	assert.Equal(t, domain.ProductStatusInactive, updated.Status)
	assert.Equal(t, "b1", updated.BusinessID)
	assert.True(t, product.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)

	bogus := "archived"
	_, err = env.dashboard.UpdateProduct(ctx, nil, product.ID, ProductUpdateInput{Status: &bogus})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = env.dashboard.UpdateProduct(ctx, nil, "missing", ProductUpdateInput{Price: &price})
	requireStatus(t, err, http.StatusNotFound)
}

func TestPublicProductsOnlyActive(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Name: "P" + strconv.Itoa(i), Price: "1"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	inactive := "inactive"
	_, err := env.dashboard.UpdateProduct(ctx, nil, ids[1], ProductUpdateInput{Status: &inactive})
	require.NoError(t, err)

	public, err := env.public.ListActiveProducts(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, public, 2)

	all, err := env.dashboard.ListProducts(ctx, nil, "b1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	p, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Name: "Gone", Price: "3"})
	require.NoError(t, err)

	require.NoError(t, env.dashboard.DeleteProduct(ctx, nil, p.ID))
	products, err := env.dashboard.ListProducts(ctx, nil, "b1")
	require.NoError(t, err)
	assert.Empty(t, products)

	requireStatus(t, env.dashboard.DeleteProduct(ctx, nil, p.ID), http.StatusNotFound)
	assert.Contains(t, env.eventTypes(), events.EventProductDeleted)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	inactive := "inactive"
	for i := 0; i < 5; i++ {
		p, err := env.dashboard.CreateProduct(ctx, nil, ProductCreateInput{BusinessID: "b1", Name: "P", Price: "1"})
		require.NoError(t, err)
		if i < 2 {
			_, err = env.dashboard.UpdateProduct(ctx, nil, p.ID, ProductUpdateInput{Status: &inactive})
			require.NoError(t, err)
		}
	}

	stats, err := env.dashboard.GetStats(ctx, nil, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.ActiveProducts)
	assert.GreaterOrEqual(t, stats.ProfileViews, 500)
	assert.Less(t, stats.ProfileViews, 2500)
	assert.GreaterOrEqual(t, stats.CustomerLeads, 10)
	assert.Less(t, stats.CustomerLeads, 60)
}

func TestDashboardOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	business, err := env.listings.CreateBusiness(ctx, validBusiness("owner@example.com"))
	require.NoError(t, err)

	owner := &Actor{Email: "owner@example.com"}
	intruder := &Actor{Email: "intruder@example.com"}

	product, err := env.dashboard.CreateProduct(ctx, owner, ProductCreateInput{BusinessID: business.ID, Name: "Cake", Price: "5"})
	require.NoError(t, err)

	_, err = env.dashboard.CreateProduct(ctx, intruder, ProductCreateInput{BusinessID: business.ID, Name: "Spam", Price: "1"})
	requireStatus(t, err, http.StatusForbidden)

	name := "Hijacked"
	_, err = env.dashboard.UpdateBusiness(ctx, intruder, business.ID, domain.BusinessPatch{Name: &name})
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.dashboard.UpdateProduct(ctx, intruder, product.ID, ProductUpdateInput{Name: &name})
	requireStatus(t, err, http.StatusForbidden)

	requireStatus(t, env.dashboard.DeleteProduct(ctx, intruder, product.ID), http.StatusForbidden)

	_, err = env.dashboard.GetStats(ctx, intruder, business.ID)
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.dashboard.ListProducts(ctx, owner, "missing")
	requireStatus(t, err, http.StatusNotFound)

	require.NoError(t, env.dashboard.DeleteProduct(ctx, owner, product.ID))
}

func TestReviews(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := env.public.CreateReview(ctx, ReviewCreateInput{
			BusinessID:   "b1",
			Rating:       strconv.Itoa(i%5 + 1),
			ReviewText:   "review " + strconv.Itoa(i),
			ReviewerName: "R",
		})
		require.NoError(t, err)
	}

	reviews, err := env.public.ListReviews(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, reviews, domain.ReviewListLimit)
	assert.Equal(t, "review 12", reviews[0].ReviewText)
	assert.Equal(t, "review 3", reviews[9].ReviewText)
	for i := 1; i < len(reviews); i++ {
		assert.True(t, reviews[i-1].CreatedAt.After(reviews[i].CreatedAt))
	}
	assert.Equal(t, domain.ReviewStatusPending, reviews[0].Status)
}

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, rating := range []string{"0", "6", "4.5", "five"} {
		_, err := env.public.CreateReview(ctx, ReviewCreateInput{BusinessID: "b1", Rating: rating, ReviewText: "t", ReviewerName: "n"})
		requireStatus(t, err, http.StatusBadRequest)
	}
	_, err := env.public.CreateReview(ctx, ReviewCreateInput{BusinessID: "b1", Rating: "4", ReviewerName: "n"})
	requireStatus(t, err, http.StatusBadRequest)

	review, err := env.public.CreateReview(ctx, ReviewCreateInput{BusinessID: "b1", Rating: "4.0", ReviewText: "ok", ReviewerName: "n"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
}

func TestGetBusinessPublic(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	created, err := env.listings.CreateBusiness(ctx, validBusiness("owner@example.com"))
	require.NoError(t, err)

	got, err := env.public.GetBusiness(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = env.public.GetBusiness(ctx, "nope")
	requireStatus(t, err, http.StatusNotFound)
}

func TestPlaceholderMetricsStayInRange(t *testing.T) {
	m := NewPlaceholderMetrics(testStats)
	for i := 0; i < 1000; i++ {
		v := m.ProfileViews()
		require.True(t, v >= 500 && v < 2500, v)
		l := m.CustomerLeads()
		require.True(t, l >= 10 && l < 60, l)
	}
	degenerate := NewSeededPlaceholderMetrics(config.StatsConfig{ViewsMin: 7, ViewsMax: 7}, 1)
	assert.Equal(t, 7, degenerate.ProfileViews())
}
