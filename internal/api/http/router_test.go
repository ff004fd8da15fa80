package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/shop-directory/internal/api/http/handlers"
	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/config"
	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/events"
	"github.com/spec-kit/shop-directory/internal/guard"
	"github.com/spec-kit/shop-directory/internal/observability"
	"github.com/spec-kit/shop-directory/internal/ratelimit"
	"github.com/spec-kit/shop-directory/internal/repository"
	"github.com/spec-kit/shop-directory/internal/service"
)

type testServer struct {
	app *fiber.App
}

type serverOptions struct {
	authEnabled bool
	limiter     *ratelimit.LimiterStore
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := docstore.NewMemoryStore()

	users := repository.NewUserRepository(store)
	businesses := repository.NewBusinessRepository(store)
	products := repository.NewProductRepository(store)
	reviews := repository.NewReviewRepository(store)
	dispatcher := events.NewInMemoryDispatcher(logger)
	claims := guard.NewLocal()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	var tokens *auth.TokenManager
	if opts.authEnabled {
		tokens = auth.NewTokenManager("router-test-secret", time.Hour)
	}

	accounts := service.NewAccountService(service.AccountDependencies{
		UserRepo: users, Guard: claims, Tokens: tokens, Dispatcher: dispatcher,
		BcryptCost: bcrypt.MinCost, Clock: clock,
	})
	listings := service.NewListingService(service.ListingDependencies{
		BusinessRepo: businesses, Guard: claims, Dispatcher: dispatcher, Clock: clock,
	})
	dashboard := service.NewDashboardService(service.DashboardDependencies{
		BusinessRepo: businesses, ProductRepo: products, Dispatcher: dispatcher, Clock: clock,
		Metrics: service.NewPlaceholderMetrics(config.StatsConfig{ViewsMin: 500, ViewsMax: 2500, LeadsMin: 10, LeadsMax: 60}),
	})
	public := service.NewPublicService(service.PublicDependencies{
		BusinessRepo: businesses, ProductRepo: products, ReviewRepo: reviews, Dispatcher: dispatcher, Clock: clock,
	})

	app := NewApp(AppConfig{Name: "test", BodyLimit: 1024 * 1024}, logger, metrics)
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{Timeout: 5 * time.Second, CORSAllowOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", metrics, map[string]handlers.Pinger{"store": store}),
		Accounts:       handlers.NewAccountHandler(accounts),
		Listings:       handlers.NewListingHandler(listings),
		Dashboard:      handlers.NewDashboardHandler(dashboard),
		Public:         handlers.NewPublicHandler(public),
		AuthMiddleware: auth.NewAuthMiddleware(opts.authEnabled, tokens, users),
		AccountLimiter: opts.limiter,
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

var bakery = map[string]any{
	"name":        "Corner Bakery",
	"category":    "Food",
	"description": "Fresh bread",
	"city":        "Lahore",
	"province":    "Punjab",
	"phone":       "0300",
	"email":       "owner@example.com",
}

func TestAccountRoutes(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	user := map[string]any{"firstName": "Sara", "lastName": "Malik", "email": "sara@example.com", "password": "pw"}

	status, body := s.do(t, nethttp.MethodPost, "/api/register", user, "")
	require.Equal(t, nethttp.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["userId"])

	status, body = s.do(t, nethttp.MethodPost, "/api/register", user, "")
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = s.do(t, nethttp.MethodGet, "/api/users", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	entry := users[0].(map[string]any)
	assert.NotContains(t, entry, "password")
	assert.NotContains(t, entry, "passwordHash")

	status, body = s.do(t, nethttp.MethodPost, "/api/login", map[string]any{"email": "sara@example.com", "password": "pw"}, "")
	require.Equal(t, nethttp.StatusOK, status)
	profile := body["user"].(map[string]any)
	assert.Equal(t, "Sara", profile["firstName"])
	assert.Equal(t, "sara@example.com", profile["email"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, body, "token")

	status, body = s.do(t, nethttp.MethodPost, "/api/login", map[string]any{"email": "sara@example.com", "password": "nope"}, "")
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, _ = s.do(t, nethttp.MethodPost, "/api/login", `{"email":`, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestBusinessAndDashboardRoutes(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	missingPhone := map[string]any{}
	for k, v := range bakery {
		if k != "phone" {
			missingPhone[k] = v
		}
	}
	status, body := s.do(t, nethttp.MethodPost, "/api/businesses", missingPhone, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, nethttp.MethodPost, "/api/businesses", bakery, "")
	require.Equal(t, nethttp.StatusCreated, status, body)
	business := body["business"].(map[string]any)
	assert.Equal(t, "pending", business["status"])
	assert.Equal(t, "No Doc", business["policeClearance"])
	id := business["id"].(string)
	require.NotEmpty(t, id)

	status, body = s.do(t, nethttp.MethodGet, "/api/businesses/check/owner%40example.com", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["hasBusiness"])

	status, body = s.do(t, nethttp.MethodGet, "/api/businesses/check/nobody@example.com", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, false, body["hasBusiness"])

	status, body = s.do(t, nethttp.MethodPut, "/api/dashboard/business/"+id, map[string]any{
		"name": "Renamed", "ownerEmail": "thief@example.com", "createdAt": "1999-01-01T00:00:00.000Z",
	}, "")
	require.Equal(t, nethttp.StatusOK, status, body)
	updated := body["business"].(map[string]any)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "owner@example.com", updated["ownerEmail"])
	assert.Equal(t, business["createdAt"], updated["createdAt"])
	assert.NotEmpty(t, updated["updatedAt"])

	status, body = s.do(t, nethttp.MethodPut, "/api/dashboard/business/"+id, map[string]any{"rating": 5}, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = s.do(t, nethttp.MethodPut, "/api/dashboard/business/does-not-exist", map[string]any{"name": "X"}, "")
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, body = s.do(t, nethttp.MethodGet, "/api/dashboard/business/owner@example.com", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, id, body["business"].(map[string]any)["id"])

	status, _ = s.do(t, nethttp.MethodGet, "/api/dashboard/business/ghost@example.com", nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	status, body := s.do(t, nethttp.MethodPost, "/api/dashboard/products", map[string]any{
		"businessId": "b1", "name": "Sourdough", "price": "19.99",
	}, "")
	require.Equal(t, nethttp.StatusCreated, status, body)
	product := body["product"].(map[string]any)
	assert.Equal(t, 19.99, product["price"])
	assert.Equal(t, "General", product["category"])
	assert.Equal(t, "active", product["status"])
	firstID := product["id"].(string)

	status, body = s.do(t, nethttp.MethodPost, "/api/dashboard/products", map[string]any{
		"businessId": "b1", "name": "Bad", "price": "abc",
	}, "")
	assert.Equal(t, nethttp.StatusBadRequest, status, body)

	for _, name := range []string{"Bun", "Cake"} {
		status, _ = s.do(t, nethttp.MethodPost, "/api/dashboard/products", map[string]any{
			"businessId": "b1", "name": name, "price": 3,
		}, "")
		require.Equal(t, nethttp.StatusCreated, status)
	}

	status, body = s.do(t, nethttp.MethodPut, "/api/dashboard/products/"+firstID, map[string]any{
		"status": "inactive", "businessId": "hijack",
	}, "")
	require.Equal(t, nethttp.StatusOK, status, body)
	assert.Equal(t, "b1", body["product"].(map[string]any)["businessId"])

	status, body = s.do(t, nethttp.MethodGet, "/api/public/products/b1", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["products"], 2)

	status, body = s.do(t, nethttp.MethodGet, "/api/dashboard/stats/b1", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["totalProducts"])
	assert.Equal(t, float64(2), stats["activeProducts"])
	assert.Equal(t, []any{"profileViews", "customerLeads"}, body["placeholder"])

	status, _ = s.do(t, nethttp.MethodDelete, "/api/dashboard/products/"+firstID, nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	status, _ = s.do(t, nethttp.MethodDelete, "/api/dashboard/products/"+firstID, nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, body = s.do(t, nethttp.MethodGet, "/api/dashboard/products/b1", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	for _, p := range body["products"].([]any) {
		assert.NotEqual(t, firstID, p.(map[string]any)["id"])
	}
	assert.Len(t, body["products"], 2)
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	status, body := s.do(t, nethttp.MethodPost, "/api/businesses", bakery, "")
	require.Equal(t, nethttp.StatusCreated, status)
	id := body["business"].(map[string]any)["id"].(string)

	status, body = s.do(t, nethttp.MethodGet, "/api/public/business/"+id, nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Corner Bakery", body["business"].(map[string]any)["name"])

	status, body = s.do(t, nethttp.MethodGet, "/api/public/business/missing", nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	for i := 0; i < 11; i++ {
		status, body = s.do(t, nethttp.MethodPost, "/api/public/reviews", map[string]any{
			"businessId": id, "rating": 5, "reviewText": "great", "reviewerName": "Ali",
		}, "")
		require.Equal(t, nethttp.StatusCreated, status, body)
	}
	assert.Equal(t, "pending", body["review"].(map[string]any)["status"])

	status, body = s.do(t, nethttp.MethodGet, "/api/public/reviews/"+id, nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["reviews"], 10)

	status, _ = s.do(t, nethttp.MethodPost, "/api/public/reviews", map[string]any{
		"businessId": id, "rating": "9", "reviewText": "x", "reviewerName": "y",
	}, "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestDashboardRequiresTokenWhenAuthEnabled(t *testing.T) {
	s := newTestServer(t, serverOptions{authEnabled: true})

	login := func(email string) string {
		status, _ := s.do(t, nethttp.MethodPost, "/api/register", map[string]any{
			"firstName": "F", "lastName": "L", "email": email, "password": "pw",
		}, "")
		require.Equal(t, nethttp.StatusCreated, status)
		status, body := s.do(t, nethttp.MethodPost, "/api/login", map[string]any{"email": email, "password": "pw"}, "")
		require.Equal(t, nethttp.StatusOK, status)
		token := body["token"].(map[string]any)
		return token["accessToken"].(string)
	}
	ownerToken := login("owner@example.com")
	otherToken := login("other@example.com")

	status, body := s.do(t, nethttp.MethodPost, "/api/businesses", bakery, "")
	require.Equal(t, nethttp.StatusCreated, status)
	id := body["business"].(map[string]any)["id"].(string)

	status, _ = s.do(t, nethttp.MethodGet, "/api/dashboard/stats/"+id, nil, "")
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, _ = s.do(t, nethttp.MethodGet, "/api/dashboard/stats/"+id, nil, "garbage")
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, _ = s.do(t, nethttp.MethodPut, "/api/dashboard/business/"+id, map[string]any{"name": "Mine"}, otherToken)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = s.do(t, nethttp.MethodPut, "/api/dashboard/business/"+id, map[string]any{"name": "Mine"}, ownerToken)
	assert.Equal(t, nethttp.StatusOK, status)

	status, _ = s.do(t, nethttp.MethodGet, "/api/public/business/"+id, nil, "")
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestRateLimitOnAccountRoutes(t *testing.T) {
	limiter := ratelimit.NewLimiterStore(1, 1, time.Minute)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, serverOptions{limiter: limiter})

	creds := map[string]any{"email": "x@example.com", "password": "pw"}
	status, _ := s.do(t, nethttp.MethodPost, "/api/login", creds, "")
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, body := s.do(t, nethttp.MethodPost, "/api/login", creds, "")
	assert.Equal(t, nethttp.StatusTooManyRequests, status)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(body))
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	status, body := s.do(t, nethttp.MethodGet, "/health/live", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, nethttp.MethodGet, "/health/ready", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ok", body["dependencies"].(map[string]any)["store"])

	status, body = s.do(t, nethttp.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	status, body = s.do(t, nethttp.MethodGet, "/health/metrics", nil, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.NotEmpty(t, body["requests"])
}
