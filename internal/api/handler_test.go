package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/render"
	"cafe-storefront/internal/service"
	"cafe-storefront/internal/store"
	"cafe-storefront/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct{}

func (stubBackend) ListProducts(context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: 1, Name: "Latte", Category: "Coffee", Price: 4.5, IsActive: true},
		{ID: 2, Name: "Cheesecake", Category: "Dessert", Price: 6, IsActive: true},
	}, nil
}

func (stubBackend) Login(context.Context, *models.LoginRequest) (*models.User, error) {
	return &models.User{CustomerID: 1, Name: "Ann", Email: "ann@example.com"}, nil
}

func (stubBackend) Register(context.Context, *models.RegisterRequest) error { return nil }

func (stubBackend) CreateOrder(context.Context, *models.CreateOrderRequest, string) (int64, error) {
	return 55, nil
}

func (stubBackend) ListOrders(context.Context) ([]models.Order, error) { return nil, nil }

func (stubBackend) OrderDetails(context.Context, int64) ([]models.OrderLineDetail, error) {
	return []models.OrderLineDetail{{ProductName: "Latte", Quantity: 2, UnitPrice: 4.5, LineAmount: 9}}, nil
}

type brokenStore struct {
	store.ViewStore
}

func (brokenStore) Create(context.Context, *view.State) error {
	return errors.New("store offline")
}

func setupRouter(t *testing.T, views store.ViewStore, ready ReadinessCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := render.NewRenderer("/picture/default.jpg")
	require.NoError(t, err)

	sf := service.NewStorefront(views, store.NewMemoryLocker(), stubBackend{},
		broker.NewEventPublisher(broker.NoopSink{}), service.Options{})

	router := gin.New()
	NewHandler(sf, renderer, t.TempDir(), ready).SetupRoutes(router)
	return router
}

func do(router *gin.Engine, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func openView(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := do(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/views/"))
	return loc
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)

	w := do(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadinessCheck(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), func(context.Context) error {
		return errors.New("redis down")
	})

	w := do(router, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis down")
}

func TestOpenAndRenderView(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)
	viewPath := openView(t, router)

	w := do(router, http.MethodGet, viewPath, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Latte")
	assert.Contains(t, body, "/picture/latte.jpg")
	assert.Contains(t, body, "Your cart is empty")
	assert.Contains(t, body, "Total: $0.00")
}

func TestUnknownViewRedirectsHome(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)

	w := do(router, http.MethodGet, "/views/nope", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = do(router, http.MethodPost, "/views/nope/cart/clear", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestAddToCartAndSubmit(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)
	viewPath := openView(t, router)

	w := do(router, http.MethodPost, viewPath+"/cart", url.Values{"product_id": {"1"}, "quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, viewPath, w.Header().Get("Location"))

	body := do(router, http.MethodGet, viewPath, nil).Body.String()
	assert.Contains(t, body, "Latte added to cart")
	assert.Contains(t, body, "$4.50 x 2")
	assert.Contains(t, body, "Total: $9.00")

	w = do(router, http.MethodPost, viewPath+"/orders", url.Values{
		"customer_name":  {"Ann"},
		"payment_method": {"card"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	body = do(router, http.MethodGet, viewPath, nil).Body.String()
	assert.Contains(t, body, "Order created! ID: 55")
	assert.Contains(t, body, "Your cart is empty")
}

func TestStepperAndTabs(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)
	viewPath := openView(t, router)

	w := do(router, http.MethodPost, viewPath+"/products/1/step", url.Values{"delta": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), `name="quantity" value="2"`)

	w = do(router, http.MethodPost, viewPath+"/products/1/step", url.Values{"delta": {"-1"}, "quantity": {"12"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), `name="quantity" value="11"`)

	w = do(router, http.MethodPost, viewPath+"/tabs/account", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), `id="accountTab" class="tab-content active"`)
}

func TestOrderDetailsModal(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)
	viewPath := openView(t, router)

	w := do(router, http.MethodPost, viewPath+"/orders/7/details", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), "Order Details #7")

	do(router, http.MethodPost, viewPath+"/modal/close", url.Values{"target": {"panel"}})
	assert.Contains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), "Order Details #7")

	do(router, http.MethodPost, viewPath+"/modal/close", url.Values{"target": {"close"}})
	assert.NotContains(t, do(router, http.MethodGet, viewPath, nil).Body.String(), "Order Details #7")
}

func TestBadRequests(t *testing.T) {
	router := setupRouter(t, store.NewMemoryStore(time.Hour), nil)
	viewPath := openView(t, router)

	w := do(router, http.MethodPost, viewPath+"/products/abc/step", url.Values{"delta": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, viewPath+"/cart", url.Values{"quantity": {"2"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, viewPath+"/orders/x/details", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenViewFailure(t *testing.T) {
	router := setupRouter(t, brokenStore{}, nil)

	w := do(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgInitFailed)
}
