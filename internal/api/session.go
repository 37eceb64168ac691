package api

import (
	"context"
	"net/http"
)

type SessionClient struct{ c *Client }

func NewSessionClient(c *Client) *SessionClient { return &SessionClient{c: c} }

// CheckLoginStatus asks whether the current session is authenticated.
// Any non-2xx or non-JSON reply is an error.
func (s *SessionClient) CheckLoginStatus(ctx context.Context) (bool, error) {
	var out LoginStatus
	if err := s.c.doJSON(ctx, http.MethodGet, "/api/check_login_status", nil, schemaLoginStatus, &out); err != nil {
		return false, err
	}
	return out.IsLoggedIn, nil
}
