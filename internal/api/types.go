package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

type LoginStatus struct {
	IsLoggedIn bool `json:"isLoggedIn"`
}

// OrderRequest is the body of POST /api/pedidos: the cart as persisted
// plus its total, sent as a JSON number.
type OrderRequest struct {
	Items []cart.LineItem `json:"items"`
	Total json.Number     `json:"total"`
}

func NewOrderRequest(items []cart.LineItem, total decimal.Decimal) OrderRequest {
	if items == nil {
		items = []cart.LineItem{}
	}
	return OrderRequest{Items: items, Total: json.Number(total.String())}
}

// OrderID accepts the server's id as a JSON number or string.
type OrderID string

func (id *OrderID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = OrderID(n.String())
	return nil
}

type OrderCreated struct {
	Message string  `json:"message"`
	OrderID OrderID `json:"pedido_id"`
}

type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"nombre"`
	Price decimal.Decimal `json:"precio"`
	Image string          `json:"imagen"`
	Stock int             `json:"stock"`
}

// MessageResponse is the generic {message, redirect_to?} reply.
type MessageResponse struct {
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

type LoginResponse struct {
	Message    string `json:"message"`
	User       User   `json:"user"`
	RedirectTo string `json:"redirect_to"`
}

type Registration struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ContactMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IVA       string `json:"iva"`
	Condition string `json:"condicion"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

type ProductSaved struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

type OrderLine struct {
	ID          int64           `json:"id"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	ProductID   int64           `json:"producto_id"`
	ProductName string          `json:"nombre_producto"`
}

type AdminOrder struct {
	ID         int64           `json:"id"`
	PlacedAt   string          `json:"fecha_pedido"`
	Total      decimal.Decimal `json:"total"`
	UserID     int64           `json:"user_id"`
	Status     string          `json:"estado"`
	Items      []OrderLine     `json:"items"`
	BuyerName  string          `json:"comprador_nombre"`
	BuyerEmail string          `json:"comprador_email"`
}

type roleChange struct {
	UserID  int64  `json:"user_id"`
	NewRole string `json:"new_role"`
}

type statusChange struct {
	Status string `json:"estado"`
}
