package api

import (
	"context"
	"net/http"
)

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

// Login opens a session; the cookie lands in the shared client's jar.
func (a *AuthClient) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/api/login", creds, schemaLogin, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Register creates a customer account; the server logs it in directly.
func (a *AuthClient) Register(ctx context.Context, reg Registration) (MessageResponse, error) {
	var out MessageResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/api/registros", reg, schemaMessage, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

// Logout hits the page route, which answers with a redirect rather than JSON.
func (a *AuthClient) Logout(ctx context.Context) error {
	resp, err := a.c.Do(ctx, http.MethodGet, "/logout", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &APIError{Endpoint: "GET /logout", Status: resp.StatusCode}
	}
	return nil
}
