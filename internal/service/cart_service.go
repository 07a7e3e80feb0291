package service

import (
	"context"
	"fmt"
	"time"

	"cafe-storefront/internal/broker"
	"cafe-storefront/internal/cart"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/util"
	"cafe-storefront/internal/view"

	"go.uber.org/zap"
)

// StepQuantity moves a product's quantity stepper by delta, staying in [1, 99].
// from is the quantity shown in the form; zero steps from the stored value.
func (s *Storefront) StepQuantity(ctx context.Context, id string, productID int64, from, delta int) (*view.State, error) {
	return s.mutate(ctx, id, func(st *view.State, _ time.Time) error {
		st.StepQuantityFrom(productID, from, delta)
		return nil
	})
}

// AddToCart adds quantity units of a catalog product. Unknown products are
// ignored without a notification.
func (s *Storefront) AddToCart(ctx context.Context, id string, productID int64, quantity int) (*view.State, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.AddToCart")
	defer span.End()

	var added *models.CartLine
	st, err := s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		added = nil
		product, ok := st.Product(productID)
		if !ok {
			return nil
		}

		line := st.Cart.Add(product, cart.ClampQuantity(quantity), s.opts.LineQuantityCap)
		added = &line
		st.ResetStepper(productID)
		s.alert(st, fmt.Sprintf(msgAddedToCart, product.Name), view.SeveritySuccess, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if added == nil {
		s.logger.Debug("Ignoring add for unknown product",
			zap.String("view_id", id),
			zap.Int64("product_id", productID))
		return st, nil
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	s.publishCart(ctx, st, models.EventTypeCartLineAdded, added.ProductID, added.Quantity)
	return st, nil
}

// RemoveFromCart drops the line at index. An invalid index leaves the cart as is.
func (s *Storefront) RemoveFromCart(ctx context.Context, id string, index int) (*view.State, error) {
	var removed *models.CartLine
	st, err := s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		removed = nil
		if line, ok := st.Cart.Remove(index); ok {
			removed = &line
		}
		s.alert(st, msgItemRemoved, view.SeverityInfo, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed != nil {
		util.CartMutationsTotal.WithLabelValues("remove").Inc()
		s.publishCart(ctx, st, models.EventTypeCartLineRemoved, removed.ProductID, removed.Quantity)
	}
	return st, nil
}

// ClearCart empties the cart unconditionally
func (s *Storefront) ClearCart(ctx context.Context, id string) (*view.State, error) {
	st, err := s.mutate(ctx, id, func(st *view.State, now time.Time) error {
		st.Cart.Clear()
		s.alert(st, msgCartCleared, view.SeverityInfo, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.publishCart(ctx, st, models.EventTypeCartCleared, 0, 0)
	return st, nil
}

func (s *Storefront) publishCart(ctx context.Context, st *view.State, eventType string, productID int64, quantity int) {
	s.events.PublishCartEvent(ctx, &models.CartEvent{
		BaseEvent: broker.NewBaseEvent(eventType, st.ID),
		ProductID: productID,
		Quantity:  quantity,
		CartLines: st.Cart.Len(),
		CartTotal: st.Cart.Total(),
	})
}
