// Package render turns a page view's state into HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"cafe-storefront/internal/cart"
	"cafe-storefront/internal/models"
	"cafe-storefront/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name of the full storefront page
const PageTemplate = "page.html"

type TabLink struct {
	Tab    view.Tab
	Title  string
	Active bool
}

type AlertView struct {
	Message  string
	Severity view.Severity
	FadeMS   int64
}

type ProductCard struct {
	ID       int64
	Name     string
	Category string
	Price    string
	Image    string
	Quantity int
}

type CategoryView struct {
	Name     string
	Products []ProductCard
}

type CartLineView struct {
	Index    int
	Name     string
	Price    string
	Quantity int
	Subtotal string
}

type CartView struct {
	Empty bool
	Lines []CartLineView
	Total string
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type OrderRow struct {
	ID          int64
	Customer    string
	Date        string
	Status      string
	StatusLabel string
	Payment     string
	Total       string
}

type ModalLine struct {
	Product   string
	Quantity  int
	UnitPrice string
	Amount    string
}

type ModalView struct {
	OrderID int64
	Lines   []ModalLine
	Total   string
}

// Page is everything the page template reads
type Page struct {
	ViewID    string
	ActiveTab view.Tab
	Tabs      []TabLink
	Alert     *AlertView

	CatalogLoaded bool
	Categories    []CategoryView
	MinQuantity   int
	MaxQuantity   int

	Cart           CartView
	OrderDraft     models.CustomerForm
	PaymentOptions []Option

	OrdersLoaded bool
	Orders       []OrderRow
	Modal        *ModalView

	CurrentUser   *models.User
	LoginDraft    models.LoginForm
	RegisterDraft models.RegisterForm
}

// Renderer builds pages from view state
type Renderer struct {
	tmpl         *template.Template
	defaultImage string
}

// NewRenderer parses the embedded templates
func NewRenderer(defaultImage string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": Money,
		"path":  viewPath,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, defaultImage: defaultImage}, nil
}

// Template exposes the parsed templates so a router can render them
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Render writes the full page for st as it looks at now
func (r *Renderer) Render(w io.Writer, st *view.State, now time.Time) error {
	return r.tmpl.ExecuteTemplate(w, PageTemplate, r.Page(st, now))
}

// Page builds the template data for st as it looks at now
func (r *Renderer) Page(st *view.State, now time.Time) *Page {
	p := &Page{
		ViewID:        st.ID,
		ActiveTab:     st.ActiveTab,
		CatalogLoaded: st.CatalogLoaded,
		MinQuantity:   cart.MinQuantity,
		MaxQuantity:   cart.MaxQuantity,
		OrderDraft:    st.OrderDraft,
		OrdersLoaded:  st.OrdersLoaded,
		CurrentUser:   st.CurrentUser,
		LoginDraft:    st.LoginDraft,
		RegisterDraft: st.RegisterDraft,
	}

	for _, t := range view.Tabs {
		p.Tabs = append(p.Tabs, TabLink{Tab: t, Title: t.Title(), Active: t == st.ActiveTab})
	}

	if a := st.CurrentAlert(now); a != nil {
		p.Alert = &AlertView{
			Message:  a.Message,
			Severity: a.Severity,
			FadeMS:   a.Remaining(now).Milliseconds(),
		}
	}

	for _, g := range view.GroupByCategory(st.Catalog) {
		cv := CategoryView{Name: g.Name}
		for _, prod := range g.Products {
			cv.Products = append(cv.Products, ProductCard{
				ID:       prod.ID,
				Name:     prod.Name,
				Category: prod.Category,
				Price:    Money(prod.Price),
				Image:    ImagePath(prod.Name, r.defaultImage),
				Quantity: st.StepperValue(prod.ID),
			})
		}
		p.Categories = append(p.Categories, cv)
	}

	p.Cart = CartView{Empty: st.Cart.IsEmpty(), Total: Money(st.Cart.Total())}
	for i, l := range st.Cart.Lines {
		p.Cart.Lines = append(p.Cart.Lines, CartLineView{
			Index:    i,
			Name:     l.Name,
			Price:    Money(l.Price),
			Quantity: l.Quantity,
			Subtotal: Money(l.Subtotal()),
		})
	}

	for _, m := range models.PaymentMethods {
		p.PaymentOptions = append(p.PaymentOptions, Option{
			Value:    m,
			Label:    models.PaymentLabel(m),
			Selected: m == st.OrderDraft.PaymentMethod,
		})
	}

	for _, o := range st.Orders {
		p.Orders = append(p.Orders, OrderRow{
			ID:          o.OrderID,
			Customer:    o.CustomerName,
			Date:        OrderDate(o.OrderDate),
			Status:      o.Status,
			StatusLabel: models.StatusLabel(o.Status),
			Payment:     models.PaymentLabel(o.PaymentMethod),
			Total:       Money(o.TotalAmount),
		})
	}

	if st.Modal != nil {
		mv := &ModalView{OrderID: st.Modal.OrderID, Total: Money(st.Modal.Total())}
		for _, l := range st.Modal.Lines {
			mv.Lines = append(mv.Lines, ModalLine{
				Product:   l.ProductName,
				Quantity:  l.Quantity,
				UnitPrice: Money(l.UnitPrice),
				Amount:    Money(l.LineAmount),
			})
		}
		p.Modal = mv
	}

	return p
}

// viewPath builds a form action under the current view
func viewPath(viewID string, parts ...interface{}) string {
	path := "/views/" + viewID
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			path += "/" + v
		case int:
			path += "/" + strconv.Itoa(v)
		case int64:
			path += "/" + strconv.FormatInt(v, 10)
		case view.Tab:
			path += "/" + string(v)
		default:
			path += "/" + fmt.Sprint(v)
		}
	}
	return path
}
