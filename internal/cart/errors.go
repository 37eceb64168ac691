package cart

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutOfStock      = errors.New("product out of stock")
	ErrStockExceeded   = errors.New("stock exceeded")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrIndexOutOfRange = errors.New("cart index out of range")
	ErrNoData          = errors.New("no persisted cart")
)

// StockError reports a rejected Add. It unwraps to ErrOutOfStock or
// ErrStockExceeded.
type StockError struct {
	Kind      error
	Name      string
	InCart    int
	Available int
}

func (e *StockError) Error() string {
	if e.Kind == ErrOutOfStock {
		return fmt.Sprintf("%q is out of stock", e.Name)
	}
	return fmt.Sprintf("not enough stock of %q: %d in cart, %d available", e.Name, e.InCart, e.Available)
}

func (e *StockError) Unwrap() error { return e.Kind }
