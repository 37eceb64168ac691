package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// Cart is the part of cart.Manager the handlers drive.
type Cart interface {
	Add(ctx context.Context, p cart.Product, availableStock int) (cart.LineItem, error)
	Remove(ctx context.Context, id int64) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	Clear(ctx context.Context) error
	Snapshot() ([]cart.LineItem, decimal.Decimal)
	Items() []cart.LineItem
	Len() int
}

type Purchaser interface {
	Purchase(ctx context.Context) checkout.Outcome
}

type ProductLister interface {
	List(ctx context.Context) ([]api.Product, error)
}

type Accounts interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResponse, error)
	Register(ctx context.Context, reg api.Registration) (api.MessageResponse, error)
	Logout(ctx context.Context) error
}

type ContactSender interface {
	Send(ctx context.Context, msg api.ContactMessage) (api.MessageResponse, error)
}

// Pages are the storefront's own page paths. OrderHistoryURL is the
// server page with the full order history and may be absolute.
type Pages struct {
	Orders          string
	Login           string
	Register        string
	OrderHistoryURL string
}

func (p Pages) withDefaults() Pages {
	if p.Orders == "" {
		p.Orders = "/mis_pedidos"
	}
	if p.Login == "" {
		p.Login = "/login"
	}
	if p.Register == "" {
		p.Register = "/registro"
	}
	if p.OrderHistoryURL == "" {
		p.OrderHistoryURL = p.Orders
	}
	return p
}

type Deps struct {
	Cart     Cart
	Checkout Purchaser
	Products ProductLister
	Accounts Accounts
	Contact  ContactSender
	Renderer view.Renderer
	Pages    Pages
	Logger   *zap.Logger
}

type Handler struct {
	cart     Cart
	checkout Purchaser
	products ProductLister
	accounts Accounts
	contact  ContactSender
	renderer view.Renderer
	pages    Pages
	log      *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pages := d.Pages.withDefaults()
	if d.Renderer.LoginURL == "" {
		d.Renderer.LoginURL = pages.Login
	}
	if d.Renderer.RegisterURL == "" {
		d.Renderer.RegisterURL = pages.Register
	}
	return &Handler{
		cart:     d.Cart,
		checkout: d.Checkout,
		products: d.Products,
		accounts: d.Accounts,
		contact:  d.Contact,
		renderer: d.Renderer,
		pages:    pages,
		log:      log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
