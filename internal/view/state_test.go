package view

import (
	"encoding/json"
	"testing"
	"time"

	"cafe-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestState() *State {
	s := New("view-1", t0)
	s.ReplaceCatalog([]models.Product{
		{ID: 1, Name: "Latte", Category: "Drinks", Price: 4.50},
		{ID: 2, Name: "Cheesecake", Category: "Dessert", Price: 6.00},
		{ID: 3, Name: "Mocha", Category: "Drinks", Price: 5.00},
	})
	return s
}

func TestNewStartsOnDefaultTab(t *testing.T) {
	s := New("v", t0)
	assert.Equal(t, TabMenu, s.ActiveTab)
	assert.True(t, s.Cart.IsEmpty())
	assert.Equal(t, models.PaymentCash, s.OrderDraft.PaymentMethod)
}

func TestSelectTab(t *testing.T) {
	s := New("v", t0)

	assert.True(t, s.SelectTab(TabCart))
	assert.Equal(t, TabCart, s.ActiveTab)

	assert.False(t, s.SelectTab(Tab("admin")))
	assert.Equal(t, TabCart, s.ActiveTab)
}

func TestAlertReplacesAndExpires(t *testing.T) {
	s := New("v", t0)
	s.ShowAlert("first", SeverityInfo, t0, 3*time.Second)
	s.ShowAlert("second", SeveritySuccess, t0.Add(time.Second), 3*time.Second)

	a := s.CurrentAlert(t0.Add(2 * time.Second))
	require.NotNil(t, a)
	assert.Equal(t, "second", a.Message)
	assert.Equal(t, 2*time.Second, a.Remaining(t0.Add(2*time.Second)))

	assert.Nil(t, s.CurrentAlert(t0.Add(4*time.Second)))
	assert.Zero(t, s.Alert.Remaining(t0.Add(5*time.Second)))
}

func TestDismissAlert(t *testing.T) {
	s := New("v", t0)
	s.ShowAlert("hello", SeverityInfo, t0, 3*time.Second)
	s.DismissAlert()
	assert.Nil(t, s.CurrentAlert(t0))
}

func TestStepQuantityClamps(t *testing.T) {
	s := newTestState()

	for i := 0; i < 120; i++ {
		s.StepQuantity(1, 1)
	}
	assert.Equal(t, 99, s.StepperValue(1))

	for i := 0; i < 120; i++ {
		s.StepQuantity(1, -1)
	}
	assert.Equal(t, 1, s.StepperValue(1))
}

func TestStepQuantityUnknownProduct(t *testing.T) {
	s := newTestState()
	_, ok := s.StepQuantity(99, 1)
	assert.False(t, ok)
	assert.Empty(t, s.Steppers)
}

func TestStepQuantityFromTypedValue(t *testing.T) {
	s := newTestState()

	next, ok := s.StepQuantityFrom(1, 40, -1)
	require.True(t, ok)
	assert.Equal(t, 39, next)
	assert.Equal(t, 39, s.StepperValue(1))

	next, _ = s.StepQuantityFrom(1, 0, 1)
	assert.Equal(t, 40, next)

	next, _ = s.StepQuantityFrom(1, 500, 1)
	assert.Equal(t, 99, next)
}

func TestResetStepper(t *testing.T) {
	s := newTestState()
	s.StepQuantity(2, 1)
	s.StepQuantity(2, 1)
	assert.Equal(t, 3, s.StepperValue(2))

	s.ResetStepper(2)
	assert.Equal(t, 1, s.StepperValue(2))
}

func TestClickModal(t *testing.T) {
	s := New("v", t0)
	s.Modal = &Modal{OrderID: 7}

	assert.False(t, s.ClickModal(TargetPanel))
	assert.NotNil(t, s.Modal)

	assert.True(t, s.ClickModal(TargetBackdrop))
	assert.Nil(t, s.Modal)

	s.Modal = &Modal{OrderID: 7}
	assert.True(t, s.ClickModal(TargetClose))
	assert.Nil(t, s.Modal)

	assert.False(t, s.ClickModal(TargetClose))
}

func TestModalTotal(t *testing.T) {
	m := &Modal{OrderID: 7, Lines: []models.OrderLineDetail{
		{ProductName: "Latte", Quantity: 1, UnitPrice: 3.50, LineAmount: 3.50},
		{ProductName: "Cheesecake", Quantity: 1, UnitPrice: 6.00, LineAmount: 6.00},
	}}
	assert.InDelta(t, 9.50, m.Total(), 1e-9)
}

func TestGroupByCategory(t *testing.T) {
	s := newTestState()
	groups := GroupByCategory(s.Catalog)

	require.Len(t, groups, 2)
	assert.Equal(t, "Drinks", groups[0].Name)
	assert.Equal(t, "Dessert", groups[1].Name)
	require.Len(t, groups[0].Products, 2)
	assert.Equal(t, "Latte", groups[0].Products[0].Name)
	assert.Equal(t, "Mocha", groups[0].Products[1].Name)
}

func TestSequenceKeepsOnlyLatest(t *testing.T) {
	var q Sequence
	first := q.Issue(SlotDetails)
	second := q.Issue(SlotDetails)
	other := q.Issue(SlotOrders)

	assert.False(t, q.IsLatest(SlotDetails, first))
	assert.True(t, q.IsLatest(SlotDetails, second))
	assert.True(t, q.IsLatest(SlotOrders, other))
	assert.False(t, q.IsLatest(SlotLogin, 0))
}

func TestStateSurvivesJSON(t *testing.T) {
	s := newTestState()
	s.StepQuantity(3, 4)
	s.Cart.Add(s.Catalog[0], 2, 0)
	s.Sequence.Issue(SlotOrders)
	s.LoginDraft = models.LoginForm{Email: "a@b.c", Password: "secret"}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, 5, back.StepperValue(3))
	assert.Equal(t, s.Cart.Lines, back.Cart.Lines)
	assert.Equal(t, "a@b.c", back.LoginDraft.Email)
	assert.Empty(t, back.LoginDraft.Password)
	assert.True(t, back.Sequence.IsLatest(SlotOrders, 1))
}
