package api

import (
	"context"
	"net/http"
)

type ContactClient struct{ c *Client }

func NewContactClient(c *Client) *ContactClient { return &ContactClient{c: c} }

func (cc *ContactClient) Send(ctx context.Context, msg ContactMessage) (MessageResponse, error) {
	var out MessageResponse
	if err := cc.c.doJSON(ctx, http.MethodPost, "/api/contacto", msg, schemaMessage, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}
