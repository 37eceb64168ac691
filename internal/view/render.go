// Package view projects the cart into rows for the cart page and the CLI.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// Row is one rendered line item. Controls address the item by ID;
// Position is only the 1-based display order.
type Row struct {
	ID        int64  `json:"id"`
	Position  int    `json:"position"`
	Name      string `json:"nombre"`
	ImageURL  string `json:"imageUrl"`
	UnitPrice string `json:"precio"`
	Quantity  int    `json:"cantidad"`
	Subtotal  string `json:"subtotal"`
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// LoginPrompt is shown when a purchase is attempted without a session.
type LoginPrompt struct {
	LoginURL    string `json:"loginUrl"`
	RegisterURL string `json:"registerUrl"`
}

type Page struct {
	Empty           bool         `json:"empty"`
	PurchaseEnabled bool         `json:"purchaseEnabled"`
	ClearEnabled    bool         `json:"clearEnabled"`
	Rows            []Row        `json:"rows"`
	Total           string       `json:"total"`
	ItemCount       int          `json:"itemCount"`
	Notice          *Notice      `json:"notice,omitempty"`
	LoginPrompt     *LoginPrompt `json:"loginPrompt,omitempty"`
}

type Renderer struct {
	Images      ImageResolver
	LoginURL    string
	RegisterURL string
}

// Render rebuilds the whole page from the current list. An empty cart
// shows "Total: $0" and disables purchase and clear.
func (r Renderer) Render(items []cart.LineItem, total decimal.Decimal) Page {
	p := Page{
		Empty:     len(items) == 0,
		Rows:      make([]Row, 0, len(items)),
		ItemCount: len(items),
	}
	if p.Empty {
		p.Total = "0"
		return p
	}

	p.PurchaseEnabled = true
	p.ClearEnabled = true
	for i, it := range items {
		p.Rows = append(p.Rows, Row{
			ID:        it.ID,
			Position:  i + 1,
			Name:      it.Name,
			ImageURL:  r.Images.Resolve(it.Image),
			UnitPrice: Money(it.UnitPrice),
			Quantity:  it.Quantity,
			Subtotal:  Money(it.Subtotal()),
		})
	}
	p.Total = Money(total)
	return p
}

// WithNotice returns a copy of p carrying a user-visible message.
func (p Page) WithNotice(level NoticeLevel, text string) Page {
	if text != "" {
		p.Notice = &Notice{Level: level, Text: text}
	}
	return p
}

func (r Renderer) WithLoginPrompt(p Page) Page {
	p.LoginPrompt = &LoginPrompt{LoginURL: r.LoginURL, RegisterURL: r.RegisterURL}
	return p
}

// Money formats a price with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
