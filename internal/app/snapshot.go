package app

import (
	"github.com/wimpyapp/ordering/internal/auth"
	"github.com/wimpyapp/ordering/internal/cart"
	"github.com/wimpyapp/ordering/internal/checkout"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/money"
	"github.com/wimpyapp/ordering/internal/navigation"
)

type LineView struct {
	models.CartLine
	PriceDisplay string `json:"priceDisplay"`
	TotalDisplay string `json:"totalDisplay"`
}

type CartView struct {
	Lines           []LineView `json:"lines"`
	ItemCount       int        `json:"itemCount"`
	Subtotal        int64      `json:"subtotal"`
	SubtotalDisplay string     `json:"subtotalDisplay"`
}

type CheckoutView struct {
	checkout.Quote
	SubtotalDisplay string `json:"subtotalDisplay"`
	DiscountDisplay string `json:"discountDisplay"`
	TotalDisplay    string `json:"totalDisplay"`
}

type ProductView struct {
	models.Product
	PriceDisplay string `json:"priceDisplay"`
}

type OrderView struct {
	models.Order
	TotalDisplay string `json:"totalDisplay"`
}

type CustomerView struct {
	Session models.CustomerSession      `json:"session"`
	Points  int64                       `json:"points"`
	History []models.PointsHistoryEntry `json:"history"`
	Orders  []OrderView                 `json:"orders"`
}

type AdminView struct {
	CreatedAt     string               `json:"createdAt"`
	Configuration models.Configuration `json:"configuration"`
	Clients       []models.Client      `json:"clients"`
	Enterprises   []models.Enterprise  `json:"enterprises"`
}

// Snapshot is a point-in-time copy of everything a renderer needs.
type Snapshot struct {
	Screen          navigation.Screen `json:"screen"`
	Tab             navigation.Tab    `json:"tab,omitempty"`
	AuthState       auth.State        `json:"authState"`
	LoginPhone      string            `json:"loginPhone,omitempty"`
	Customer        *CustomerView     `json:"customer,omitempty"`
	Admin           *AdminView        `json:"admin,omitempty"`
	Cart            CartView          `json:"cart"`
	Checkout        *CheckoutView     `json:"checkout,omitempty"`
	Products        []ProductView     `json:"products"`
	CatalogDegraded bool              `json:"catalogDegraded"`
	Pending         []string          `json:"pending"`
	Notifications   int               `json:"notifications"`
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	var cs *models.CustomerSession
	if a.customerSession != nil {
		c := *a.customerSession
		cs = &c
	}
	var as *models.AdminSession
	if a.adminSession != nil {
		s := *a.adminSession
		as = &s
	}
	var points int64
	open := a.checkout != nil
	if open {
		points = a.checkout.points
	}
	a.mu.Unlock()

	lines := a.cart.Lines()
	s := Snapshot{
		Screen:          a.nav.Screen(),
		Tab:             a.nav.Tab(),
		AuthState:       a.customer.State(),
		LoginPhone:      a.customer.Phone(),
		Cart:            cartView(lines),
		Products:        productViews(a.cache.Products()),
		CatalogDegraded: a.cache.Degraded(),
		Pending:         a.inflight.Snapshot(),
		Notifications:   a.notes.Len(),
	}

	if cs != nil {
		s.Customer = &CustomerView{
			Session: *cs,
			Points:  a.cache.Points(),
			History: a.cache.History(),
			Orders:  orderViews(a.cache.Orders()),
		}
	}
	if as != nil {
		s.Admin = &AdminView{
			CreatedAt:     as.CreatedAt,
			Configuration: a.cache.Configuration(),
			Clients:       a.cache.Clients(),
			Enterprises:   a.cache.Enterprises(),
		}
	}
	if open {
		q := checkout.Calculate(lines, points, a.cache.Points(), a.cache.Configuration().RedemptionRate())
		s.Checkout = &CheckoutView{
			Quote:           q,
			SubtotalDisplay: money.Display(q.Subtotal),
			DiscountDisplay: money.Display(q.Discount),
			TotalDisplay:    money.Display(q.Total),
		}
	}
	return s
}

func cartView(lines []models.CartLine) CartView {
	v := CartView{
		Lines:     make([]LineView, 0, len(lines)),
		ItemCount: cart.ItemCount(lines),
		Subtotal:  cart.Subtotal(lines),
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, LineView{
			CartLine:     l,
			PriceDisplay: money.Display(l.UnitPrice),
			TotalDisplay: money.Display(l.Total()),
		})
	}
	v.SubtotalDisplay = money.Display(v.Subtotal)
	return v
}

func productViews(products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ProductView{Product: p, PriceDisplay: money.Display(p.Price)})
	}
	return out
}

func orderViews(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderView{Order: o, TotalDisplay: money.Display(o.Total)})
	}
	return out
}

// SearchProducts filters the cached catalog.
func (a *App) SearchProducts(query string) []ProductView {
	return productViews(a.cache.SearchProducts(query))
}
