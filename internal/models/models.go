package models

// Product represents a catalog entry served by the ordering API
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active,omitempty"`
}

// CartLine is one product/quantity pair in the visitor's cart.
// Name and Price are captured when the line is created.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns price times quantity
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Order represents a past order as listed by the API
type Order struct {
	OrderID       int64   `json:"order_id"`
	CustomerName  string  `json:"customer_name"`
	OrderDate     string  `json:"order_date"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	TotalAmount   float64 `json:"total_amount"`
}

// OrderLineDetail is one line of a submitted order
type OrderLineDetail struct {
	ProductID   int64   `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineAmount  float64 `json:"line_amount"`
}

// User is the payload returned by a successful login
type User struct {
	CustomerID int64  `json:"customer_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentAlipay = "alipay"
	PaymentWechat = "wechat"
)

// PaymentMethods lists the accepted payment methods in display order
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentAlipay, PaymentWechat}

var statusLabels = map[string]string{
	OrderStatusPending:    "Pending",
	OrderStatusProcessing: "Processing",
	OrderStatusCompleted:  "Completed",
	OrderStatusCancelled:  "Cancelled",
}

var paymentLabels = map[string]string{
	PaymentCash:   "Cash",
	PaymentCard:   "Card",
	PaymentAlipay: "Alipay",
	PaymentWechat: "WeChat Pay",
}

// StatusLabel returns the display text for an order status.
// Unknown statuses are returned unchanged.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// PaymentLabel returns the display text for a payment method.
// Unknown methods are returned unchanged.
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

// IsPaymentMethod reports whether method is one of PaymentMethods
func IsPaymentMethod(method string) bool {
	_, ok := paymentLabels[method]
	return ok
}
