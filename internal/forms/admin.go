package forms

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
)

var (
	OrderStatuses = []string{"Pendiente", "Aceptado", "Enviado"}
	UserRoles     = []string{"cliente", "admin"}
)

type ProductInput struct {
	Name  string
	Price string
	Stock string
	Image *api.ImageUpload
}

// Product validates an admin product form. An image is mandatory only when
// creating.
func Product(in ProductInput, creating bool) (api.ProductForm, error) {
	errs := FieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.add("nombre", "Product name is required.")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	switch {
	case err != nil:
		errs.add("precio", "Price must be a valid number.")
	case price.IsNegative():
		errs.add("precio", "Price cannot be negative.")
	}

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	switch {
	case err != nil:
		errs.add("stock", "Stock must be a whole number.")
	case stock < 0:
		errs.add("stock", "Stock cannot be negative.")
	}

	if creating && (in.Image == nil || in.Image.Filename == "") {
		errs.add("imagen", "A product image is required.")
	}
	if err := errs.err(); err != nil {
		return api.ProductForm{}, err
	}
	return api.ProductForm{Name: name, Price: price, Stock: stock, Image: in.Image}, nil
}

func OrderStatus(s string) error {
	return oneOf("estado", s, OrderStatuses, "Invalid order status.")
}

func Role(s string) error {
	return oneOf("new_role", s, UserRoles, `Invalid role. Must be "cliente" or "admin".`)
}

func oneOf(field, v string, allowed []string, msg string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return FieldErrors{field: msg}
}
