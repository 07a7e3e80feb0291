// Package view holds the state of one storefront page view and the pure
// transitions applied to it by user actions.
package view

import (
	"time"

	"cafe-storefront/internal/cart"
	"cafe-storefront/internal/models"
)

// ClickTarget says where a click on the open modal landed
type ClickTarget string

const (
	TargetClose    ClickTarget = "close"
	TargetBackdrop ClickTarget = "backdrop"
	TargetPanel    ClickTarget = "panel"
)

// Modal is the order details overlay
type Modal struct {
	OrderID int64                    `json:"order_id"`
	Lines   []models.OrderLineDetail `json:"lines"`
}

// Total sums the server supplied line amounts
func (m *Modal) Total() float64 {
	var total float64
	for _, l := range m.Lines {
		total += l.LineAmount
	}
	return total
}

// State is everything the page knows between two user actions
type State struct {
	ID        string    `json:"id"`
	OpenedAt  time.Time `json:"opened_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Catalog       []models.Product `json:"catalog"`
	CatalogLoaded bool             `json:"catalog_loaded"`
	Steppers      map[int64]int    `json:"steppers,omitempty"`
	Cart          cart.Cart        `json:"cart"`

	ActiveTab   Tab          `json:"active_tab"`
	CurrentUser *models.User `json:"current_user,omitempty"`
	Alert       *Alert       `json:"alert,omitempty"`

	Orders       []models.Order `json:"orders,omitempty"`
	OrdersLoaded bool           `json:"orders_loaded"`
	Modal        *Modal         `json:"modal,omitempty"`

	OrderDraft    models.CustomerForm `json:"order_draft"`
	LoginDraft    models.LoginForm    `json:"login_draft"`
	RegisterDraft models.RegisterForm `json:"register_draft"`

	Sequence Sequence `json:"sequence"`
}

// New returns the state of a freshly opened page
func New(id string, now time.Time) *State {
	return &State{
		ID:        id,
		OpenedAt:  now,
		UpdatedAt: now,
		ActiveTab: DefaultTab,
		OrderDraft: models.CustomerForm{
			PaymentMethod: models.PaymentCash,
		},
	}
}

// SelectTab activates t. Unknown tabs leave the state unchanged.
func (s *State) SelectTab(t Tab) bool {
	if _, ok := ParseTab(string(t)); !ok {
		return false
	}
	s.ActiveTab = t
	return true
}

// ShowAlert replaces any current alert
func (s *State) ShowAlert(message string, severity Severity, now time.Time, ttl time.Duration) {
	s.Alert = &Alert{
		Message:   message,
		Severity:  severity,
		ShownAt:   now,
		ExpiresAt: now.Add(ttl),
	}
}

// CurrentAlert returns the alert if it has not expired yet
func (s *State) CurrentAlert(now time.Time) *Alert {
	if s.Alert.Active(now) {
		return s.Alert
	}
	return nil
}

func (s *State) DismissAlert() {
	s.Alert = nil
}

// ReplaceCatalog swaps in a freshly loaded catalog and resets all steppers
func (s *State) ReplaceCatalog(products []models.Product) {
	s.Catalog = products
	s.CatalogLoaded = true
	s.Steppers = nil
}

// Product looks a product up in the current catalog
func (s *State) Product(id int64) (models.Product, bool) {
	for _, p := range s.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// StepperValue is the quantity currently shown for a product
func (s *State) StepperValue(productID int64) int {
	if v, ok := s.Steppers[productID]; ok {
		return cart.ClampQuantity(v)
	}
	return cart.MinQuantity
}

// StepQuantity moves a product's stepper by delta within [1, 99]
func (s *State) StepQuantity(productID int64, delta int) (int, bool) {
	return s.StepQuantityFrom(productID, 0, delta)
}

// StepQuantityFrom steps from the quantity the visitor last typed. A
// non-positive from means the stored stepper value.
func (s *State) StepQuantityFrom(productID int64, from, delta int) (int, bool) {
	if _, ok := s.Product(productID); !ok {
		return 0, false
	}
	current := s.StepperValue(productID)
	if from > 0 {
		current = cart.ClampQuantity(from)
	}
	next := cart.Step(current, delta)
	s.setStepper(productID, next)
	return next, true
}

// ResetStepper puts a product's stepper back to 1
func (s *State) ResetStepper(productID int64) {
	delete(s.Steppers, productID)
}

func (s *State) setStepper(productID int64, v int) {
	if v == cart.MinQuantity {
		s.ResetStepper(productID)
		return
	}
	if s.Steppers == nil {
		s.Steppers = make(map[int64]int)
	}
	s.Steppers[productID] = v
}

// ClickModal closes the modal when the click landed on the close button or
// the backdrop. Clicks on the panel keep it open.
func (s *State) ClickModal(target ClickTarget) bool {
	if s.Modal == nil {
		return false
	}
	switch target {
	case TargetClose, TargetBackdrop:
		s.Modal = nil
		return true
	default:
		return false
	}
}

// ResetOrderDraft clears the order form back to its defaults
func (s *State) ResetOrderDraft() {
	s.OrderDraft = models.CustomerForm{PaymentMethod: models.PaymentCash}
}
