// Package apiclient talks to the café ordering API over HTTP/JSON.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cafe-storefront/internal/models"
	"cafe-storefront/internal/util"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ErrTransport marks requests that never produced a response
var ErrTransport = errors.New("ordering api unreachable")

// APIError is a completed response whose success flag was false
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// envelope is the body shape shared by every API response
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	OrderID int64           `json:"order_id,omitempty"`
}

// Client calls the ordering API
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  util.GetLogger(),
	}
}

// ListProducts fetches the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/products", "list_products", nil, nil)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := decodeData(env, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Login exchanges credentials for the member payload
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", "login", req, nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := decodeData(env, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Register creates a member account
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/register", "register", req, nil)
	return err
}

// CreateOrder submits an order and returns the new order id
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, idempotencyKey string) (int64, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	env, err := c.do(ctx, http.MethodPost, "/api/orders", "create_order", req, header)
	if err != nil {
		return 0, err
	}
	return env.OrderID, nil
}

// ListOrders fetches past orders in the order the server returns them
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/orders", "list_orders", nil, nil)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := decodeData(env, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// OrderDetails fetches the line items of one order
func (c *Client) OrderDetails(ctx context.Context, orderID int64) ([]models.OrderLineDetail, error) {
	path := "/api/orders/" + strconv.FormatInt(orderID, 10) + "/details"
	env, err := c.do(ctx, http.MethodGet, path, "order_details", nil, nil)
	if err != nil {
		return nil, err
	}

	var lines []models.OrderLineDetail
	if err := decodeData(env, &lines); err != nil {
		return nil, fmt.Errorf("decode order details: %w", err)
	}
	return lines, nil
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, body interface{}, header http.Header) (env *envelope, err error) {
	ctx, span := util.StartSpan(ctx, "APIClient."+endpoint)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.target", path),
	)

	start := time.Now()
	outcome := "ok"
	defer func() {
		util.APIRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			outcome = "encode_error"
			return nil, fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		outcome = "encode_error"
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	env = &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		outcome = "api_error"
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "invalid response body"}
	}

	if !env.Success {
		outcome = "api_error"
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug("API reported failure",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg))
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}

	return env, nil
}

func decodeData(env *envelope, v interface{}) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return json.Unmarshal(env.Data, v)
}
