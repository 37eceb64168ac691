package api

import (
	"context"
	"net/http"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

// CreateOrder submits the cart. A JSON error reply is returned as
// *APIError so the caller can show the server's message.
func (o *OrderClient) CreateOrder(ctx context.Context, req OrderRequest) (OrderCreated, error) {
	var out OrderCreated
	if err := o.c.doJSON(ctx, http.MethodPost, "/api/pedidos", req, schemaOrderCreated, &out); err != nil {
		return OrderCreated{}, err
	}
	return out, nil
}
