package api

import (
	"context"
	"net/http"
)

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

func (p *ProductClient) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := p.c.doJSON(ctx, http.MethodGet, "/api/productos", nil, schemaProducts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get scans the catalog for one product; the server has no single-product
// endpoint.
func (p *ProductClient) Get(ctx context.Context, id int64) (Product, bool, error) {
	all, err := p.List(ctx)
	if err != nil {
		return Product{}, false, err
	}
	for _, pr := range all {
		if pr.ID == id {
			return pr, true, nil
		}
	}
	return Product{}, false, nil
}
