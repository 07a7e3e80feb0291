package service

import (
	"context"
	"fmt"
	"time"

	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/view"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitOrder sends the cart and the customer form to the ordering API.
// An empty cart never reaches the network. On failure the cart and the form
// draft are kept so the visitor can retry.
func (s *Storefront) SubmitOrder(ctx context.Context, id string, form models.CustomerForm) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.SubmitOrder")
	defer span.End()

	lockKey := "submit:" + id
	token, acquired, err := s.locks.Acquire(ctx, lockKey, s.opts.SubmitLockTTL)
	if err != nil {
		s.logger.Error("Failed to take submit lock", zap.String("view_id", id), zap.Error(err))
		util.OrderSubmissionsFailedTotal.WithLabelValues("lock_error").Inc()
		return s.notify(ctx, id, msgOrderFailed, view.SeverityError)
	}
	if !acquired {
		s.logger.Info("Duplicate order submission ignored", zap.String("view_id", id))
		util.OrderSubmissionsFailedTotal.WithLabelValues("in_flight").Inc()
		return s.notify(ctx, id, msgSubmitInFlight, view.SeverityInfo)
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
			s.logger.Warn("Failed to release submit lock", zap.String("view_id", id), zap.Error(err))
		}
	}()

	// read the cart only once the lock is held
	var req *models.CreateOrderRequest
	st, err := s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		req = nil
		st.OrderDraft = form
		switch {
		case st.Cart.IsEmpty():
			s.alert(st, msgCartEmpty, view.SeverityError, now)
		case !models.IsPaymentMethod(form.PaymentMethod):
			s.alert(st, msgPaymentMethod, view.SeverityError, now)
		default:
			req = models.NewCreateOrderRequest(form, st.Cart.Snapshot())
		}
		return nil
	})
	if err != nil || req == nil {
		return st, err
	}

	orderID, apiErr := s.api.CreateOrder(ctx, req, uuid.New().String())

	st, err = s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		if apiErr != nil {
			s.alert(st, msgOrderFailed, view.SeverityError, now)
			return nil
		}
		s.alert(st, fmt.Sprintf(msgOrderCreated, orderID), view.SeveritySuccess, now)
		st.Cart.Clear()
		st.ResetOrderDraft()
		return nil
	})

	total := 0.0
	for _, l := range req.Items {
		total += l.Subtotal()
	}

	if apiErr != nil {
		reason := failureReason(apiErr)
		s.logAPIError(id, "Create order failed", apiErr)
		util.OrderSubmissionsFailedTotal.WithLabelValues(reason).Inc()
		s.events.PublishOrderSubmitFailed(ctx, &models.OrderSubmitFailedEvent{
			BaseEvent: broker.NewBaseEvent(models.EventTypeOrderSubmitFailed, id),
			Reason:    reason,
		})
		return st, err
	}

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.String("view_id", id),
		zap.Int64("order_id", orderID),
		zap.Int("lines", len(req.Items)))
	s.events.PublishOrderSubmitted(ctx, &models.OrderSubmittedEvent{
		BaseEvent:     broker.NewBaseEvent(models.EventTypeOrderSubmitted, id),
		OrderID:       orderID,
		PaymentMethod: req.PaymentMethod,
		Lines:         len(req.Items),
		Total:         total,
	})
	return st, err
}

// LoadOrderHistory fetches past orders and shows them in server order
func (s *Storefront) LoadOrderHistory(ctx context.Context, id string) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.LoadOrderHistory")
	defer span.End()

	seq, err := s.issue(ctx, id, view.SlotOrders)
	if err != nil {
		return nil, err
	}

	orders, apiErr := s.api.ListOrders(ctx)
	if apiErr != nil {
		s.logAPIError(id, "Load order history failed", apiErr)
	}

	return s.apply(ctx, id, view.SlotOrders, seq, func(st *view.State, now time.Time) {
		if apiErr != nil {
			s.alert(st, msgHistoryFailed, view.SeverityError, now)
			return
		}
		st.Orders = orders
		st.OrdersLoaded = true
	})
}

// ViewOrderDetails fetches one order's lines and opens the details modal
func (s *Storefront) ViewOrderDetails(ctx context.Context, id string, orderID int64) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.ViewOrderDetails")
	defer span.End()

	seq, err := s.issue(ctx, id, view.SlotDetails)
	if err != nil {
		return nil, err
	}

	lines, apiErr := s.api.OrderDetails(ctx, orderID)
	if apiErr != nil {
		s.logAPIError(id, "Failed to load order details", apiErr)
	}

	return s.apply(ctx, id, view.SlotDetails, seq, func(st *view.State, now time.Time) {
		if apiErr != nil {
			s.alert(st, msgDetailsFailed, view.SeverityError, now)
			return
		}
		st.Modal = &view.Modal{OrderID: orderID, Lines: lines}
	})
}

// ClickModal handles a click on the open details modal
func (s *Storefront) ClickModal(ctx context.Context, id string, target view.ClickTarget) (*view.State, error) {
	return s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		st.ClickModal(target)
		return nil
	})
}

func (s *Storefront) notify(ctx context.Context, id, message string, severity view.Severity) (*view.State, error) {
	return s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		s.alert(st, message, severity, now)
		return nil
	})
}
