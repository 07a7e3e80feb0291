package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe-storefront/internal/apiclient"
	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/store"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/view"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the slice of the ordering API the storefront depends on
type Backend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest, idempotencyKey string) (int64, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	OrderDetails(ctx context.Context, orderID int64) ([]models.OrderLineDetail, error)
}

// User-facing messages
const (
	msgCatalogFailed  = "Failed to load product"
	msgAddedToCart    = "%s added to cart"
	msgItemRemoved    = "Item removed from cart"
	msgCartCleared    = "Cart cleared"
	msgCartEmpty      = "Your cart is empty. Please add items first."
	msgPaymentMethod  = "Please choose a payment method."
	msgSubmitInFlight = "Your order is already being submitted."
	msgOrderCreated   = "Order created! ID: %d"
	msgOrderFailed    = "Failed to create order. Please try again."
	msgHistoryFailed  = "Failed to load order history"
	msgDetailsFailed  = "Failed to load order details"
	msgSignedIn       = "Signed in successfully"
	msgLoginFailed    = "Login failed"
	msgRegistered     = "Account created. You can sign in now."
	msgRegisterFailed = "Registration failed"
	MsgInitFailed     = "System initialization failed. Please refresh the page and try again."
)

// Options tunes storefront behaviour
type Options struct {
	AlertTTL        time.Duration
	SubmitLockTTL   time.Duration
	LineQuantityCap int
	Now             func() time.Time
}

// Storefront owns every page view and applies user actions to it
type Storefront struct {
	views  store.ViewStore
	locks  store.Locker
	api    Backend
	events *broker.EventPublisher
	opts   Options
	logger *zap.Logger
}

// NewStorefront creates the storefront controller
func NewStorefront(
	views store.ViewStore,
	locks store.Locker,
	api Backend,
	events *broker.EventPublisher,
	opts Options,
) *Storefront {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AlertTTL <= 0 {
		opts.AlertTTL = 3 * time.Second
	}
	if opts.SubmitLockTTL <= 0 {
		opts.SubmitLockTTL = 30 * time.Second
	}
	return &Storefront{
		views:  views,
		locks:  locks,
		api:    api,
		events: events,
		opts:   opts,
		logger: util.GetLogger(),
	}
}

// Now returns the storefront clock
func (s *Storefront) Now() time.Time {
	return s.opts.Now()
}

// OpenView starts a new page view and loads its catalog
func (s *Storefront) OpenView(ctx context.Context) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.OpenView")
	defer span.End()

	state := view.New(uuid.New().String(), s.Now())
	if err := s.views.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}

	util.ViewsOpenedTotal.Inc()
	s.logger.Info("View opened", zap.String("view_id", state.ID))
	s.events.PublishViewOpened(ctx, state.ID)

	return s.LoadCatalog(ctx, state.ID)
}

// View returns the current state of a page view
func (s *Storefront) View(ctx context.Context, id string) (*view.State, error) {
	return s.views.Load(ctx, id)
}

// LoadCatalog fetches the product list and replaces the view's catalog.
// On failure the previous catalog is kept.
func (s *Storefront) LoadCatalog(ctx context.Context, id string) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.LoadCatalog")
	defer span.End()

	seq, err := s.issue(ctx, id, view.SlotCatalog)
	if err != nil {
		return nil, err
	}

	products, apiErr := s.api.ListProducts(ctx)
	if apiErr != nil {
		s.logAPIError(id, "Failed to load product", apiErr)
	}

	return s.apply(ctx, id, view.SlotCatalog, seq, func(st *view.State, now time.Time) {
		if apiErr != nil {
			s.alert(st, msgCatalogFailed, view.SeverityError, now)
			return
		}
		st.ReplaceCatalog(products)
	})
}

// SelectTab makes tab the single active view. Unknown tabs are ignored.
func (s *Storefront) SelectTab(ctx context.Context, id, tab string) (*view.State, error) {
	t, ok := view.ParseTab(tab)
	if !ok {
		s.logger.Debug("Ignoring unknown tab", zap.String("view_id", id), zap.String("tab", tab))
		return s.views.Load(ctx, id)
	}
	return s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		st.SelectTab(t)
		return nil
	})
}

// DismissAlert removes the current alert
func (s *Storefront) DismissAlert(ctx context.Context, id string) (*view.State, error) {
	return s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		st.DismissAlert()
		return nil
	})
}

// mutate applies fn to a view under the store's per-view serialization
func (s *Storefront) mutate(ctx context.Context, id string, fn func(st *view.State, now time.Time) error) (*view.State, error) {
	return s.views.Update(ctx, id, func(st *view.State) error {
		now := s.Now()
		if err := fn(st, now); err != nil {
			return err
		}
		st.UpdatedAt = now
		return nil
	})
}

// issue reserves a sequence number for a request about to be sent
func (s *Storefront) issue(ctx context.Context, id string, slot view.Slot) (uint64, error) {
	var seq uint64
	_, err := s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		seq = st.Sequence.Issue(slot)
		return nil
	})
	return seq, err
}

// apply runs fn only if seq is still the newest request for slot. Stale
// responses leave the view untouched. fn may run more than once when the
// store retries, so it must only touch st.
func (s *Storefront) apply(ctx context.Context, id string, slot view.Slot, seq uint64, fn func(st *view.State, now time.Time)) (*view.State, error) {
	var stale bool
	st, err := s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		stale = !st.Sequence.IsLatest(slot, seq)
		if stale {
			return nil
		}
		fn(st, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stale {
		util.StaleResponsesTotal.WithLabelValues(string(slot)).Inc()
		s.logger.Info("Discarding stale response",
			zap.String("view_id", id),
			zap.String("slot", string(slot)),
			zap.Uint64("seq", seq))
	}
	return st, nil
}

func (s *Storefront) alert(st *view.State, message string, severity view.Severity, now time.Time) {
	st.ShowAlert(message, severity, now, s.opts.AlertTTL)
}

// logAPIError records the server's message; users only ever see a generic alert
func (s *Storefront) logAPIError(viewID, msg string, err error) {
	fields := []zap.Field{zap.String("view_id", viewID), zap.Error(err)}

	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrTransport):
		s.logger.Error(msg+": backend unreachable", fields...)
	case errors.As(err, &apiErr):
		s.logger.Warn(msg, append(fields,
			zap.String("endpoint", apiErr.Endpoint),
			zap.Int("status", apiErr.StatusCode),
			zap.String("server_error", apiErr.Message))...)
	default:
		s.logger.Error(msg, fields...)
	}
}

// failureReason buckets an API error for metrics and events
func failureReason(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrTransport):
		return "transport"
	case errors.As(err, &apiErr):
		return "rejected"
	default:
		return "internal"
	}
}
