package view

import "github.com/shopspring/decimal"

// Product is a catalog entry as the product page needs it.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
	Stock int
}

type ProductCard struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Price    string `json:"precio"`
	RawPrice string `json:"-"`
	Image    string `json:"imagen"`
	ImageURL string `json:"imageUrl"`
	Stock    int    `json:"stock"`
	InStock  bool   `json:"inStock"`
	InCart   int    `json:"inCart"`
}

type ProductsPage struct {
	Cards     []ProductCard `json:"products"`
	CartCount int           `json:"cartCount"`
	Notice    *Notice       `json:"notice,omitempty"`
}

// RenderProducts builds the catalog page. CartCount is the number of
// distinct line items, matching the header badge.
func (r Renderer) RenderProducts(products []Product, inCart map[int64]int, cartCount int) ProductsPage {
	page := ProductsPage{Cards: make([]ProductCard, 0, len(products)), CartCount: cartCount}
	for _, p := range products {
		page.Cards = append(page.Cards, ProductCard{
			ID:       p.ID,
			Name:     p.Name,
			Price:    Money(p.Price),
			RawPrice: p.Price.String(),
			Image:    p.Image,
			ImageURL: r.Images.Resolve(p.Image),
			Stock:    p.Stock,
			InStock:  p.Stock > 0,
			InCart:   inCart[p.ID],
		})
	}
	return page
}

func (p ProductsPage) WithNotice(level NoticeLevel, text string) ProductsPage {
	if text != "" {
		p.Notice = &Notice{Level: level, Text: text}
	}
	return p
}
