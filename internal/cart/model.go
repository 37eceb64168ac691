package cart

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart. JSON field names match the
// storefront's persisted "carrito" format.
type LineItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"nombre"`
	UnitPrice decimal.Decimal `json:"precio"`
	Image     string          `json:"imagen"`
	Quantity  int             `json:"cantidad"`
}

// Product is what a product page hands to Add.
type Product struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	Image     string
}

// Subtotal returns UnitPrice * Quantity.
func (it LineItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type wireItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"nombre"`
	UnitPrice json.Number     `json:"precio"`
	Image     string          `json:"imagen"`
	Quantity  json.RawMessage `json:"cantidad,omitempty"`
}

func (it LineItem) MarshalJSON() ([]byte, error) {
	qty, _ := json.Marshal(it.Quantity)
	return json.Marshal(wireItem{
		ID:        it.ID,
		Name:      it.Name,
		UnitPrice: json.Number(it.UnitPrice.String()),
		Image:     it.Image,
		Quantity:  qty,
	})
}

// UnmarshalJSON is lenient about "cantidad": older pages stored it as a
// string and some entries lack it entirely. Anything that is not a positive
// integer becomes 1.
func (it *LineItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return err
	}

	price := decimal.Zero
	if w.UnitPrice != "" {
		p, err := decimal.NewFromString(w.UnitPrice.String())
		if err != nil {
			return err
		}
		price = p
	}

	*it = LineItem{
		ID:        w.ID,
		Name:      w.Name,
		UnitPrice: price,
		Image:     w.Image,
		Quantity:  coerceRawQuantity(w.Quantity),
	}
	return nil
}

func coerceRawQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 1
	}
	switch q := v.(type) {
	case json.Number:
		return ParseQuantity(q.String())
	case string:
		return ParseQuantity(q)
	default:
		return 1
	}
}

// ParseQuantity turns arbitrary user input into a valid quantity.
// It reads a leading integer the way a number input does ("3", "3.7", " 4 ")
// and falls back to 1 for anything non-numeric or below 1.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 1
	}
	return ClampQuantity(n)
}

// ClampQuantity enforces quantity >= 1.
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
