package view

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// AddedMessage confirms an Add. A quantity of 1 means the item is new.
func AddedMessage(it cart.LineItem) string {
	if it.Quantity == 1 {
		return fmt.Sprintf("\"%s\" was added to your cart.", it.Name)
	}
	return fmt.Sprintf("Added another \"%s\". You now have %d in your cart.", it.Name, it.Quantity)
}

func StockMessage(se *cart.StockError) string {
	if errors.Is(se, cart.ErrOutOfStock) {
		return fmt.Sprintf("\"%s\" is currently OUT OF STOCK.", se.Name)
	}
	return fmt.Sprintf("Not enough stock of \"%s\". You already have %d in your cart and only %d are available.", se.Name, se.InCart, se.Available)
}
