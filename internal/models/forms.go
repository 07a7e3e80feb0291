package models

// CustomerForm holds the order form fields
type CustomerForm struct {
	Name          string `json:"customer_name" form:"customer_name"`
	Phone         string `json:"customer_phone" form:"customer_phone"`
	Email         string `json:"customer_email" form:"customer_email"`
	Address       string `json:"customer_address" form:"customer_address"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// LoginForm holds the sign-in fields. Password is never persisted in view state.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"-" form:"password"`
}

// RegisterForm holds the registration fields. Password is never persisted in view state.
type RegisterForm struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"-" form:"password"`
	Phone       string `json:"phone" form:"phone"`
	Address     string `json:"address" form:"address"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth"`
}

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerAddress string     `json:"customer_address"`
	PaymentMethod   string     `json:"payment_method"`
	Items           []CartLine `json:"items"`
}

// NewCreateOrderRequest builds the order payload from the form and cart lines
func NewCreateOrderRequest(form CustomerForm, items []CartLine) *CreateOrderRequest {
	lines := make([]CartLine, len(items))
	copy(lines, items)
	return &CreateOrderRequest{
		CustomerName:    form.Name,
		CustomerPhone:   form.Phone,
		CustomerEmail:   form.Email,
		CustomerAddress: form.Address,
		PaymentMethod:   form.PaymentMethod,
		Items:           lines,
	}
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}
