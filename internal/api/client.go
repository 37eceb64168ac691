package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
)

const maxBody = 1 << 20

// Client is the shared base for the typed endpoint clients. All of them
// use one *http.Client so the session cookie set by login is reused.
type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(name, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// NewHTTPClient returns a client with a cookie jar. A zero timeout means
// requests wait as long as their context allows.
func NewHTTPClient(timeout time.Duration, tracing bool) *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New cannot fail with nil options
		panic(err)
	}
	var transport http.RoundTripper = http.DefaultTransport
	if tracing {
		transport = otelhttp.NewTransport(transport)
	}
	return &http.Client{Jar: jar, Timeout: timeout, Transport: transport}
}

func (c *Client) Do(ctx context.Context, method, p string, body io.Reader, headers http.Header) (*http.Response, error) {
	// JoinPath keeps any prefix of the base URL ("http://host/shop").
	u := c.BaseURL.JoinPath(p)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", c.Name)
	}
	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if cid := correlation.FromContext(ctx); cid != "" {
		req.Header.Set(correlation.Header, cid)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "%s %s %s: %v", c.Name, method, p, err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, p string, in any, schema string, out any) error {
	var body io.Reader
	headers := http.Header{}
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "%s: encode request", c.Name)
		}
		body = bytes.NewReader(raw)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, method, p, body, headers)
	if err != nil {
		return err
	}
	return c.decode(resp, method+" "+p, schema, out)
}

// decode checks, in order: JSON content type, success status, schema.
// Non-2xx JSON responses become *APIError with whatever message the
// server sent.
func (c *Client) decode(resp *http.Response, endpoint, schema string, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.Wrapf(ErrTransport, "%s: read body: %v", endpoint, err)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return errors.Wrapf(ErrMalformedResponse, "%s: status %d, content-type %q", endpoint, resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Message: e.Message}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s: %v", endpoint, err)
	}
	if s, ok := schemas[schema]; ok {
		if err := s.Validate(doc); err != nil {
			return errors.Wrapf(ErrMalformedResponse, "%s: %v", endpoint, err)
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s: %v", endpoint, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || mt == "application/problem+json")
}

// Services bundles the typed clients over one base client.
type Services struct {
	Session  *SessionClient
	Orders   *OrderClient
	Products *ProductClient
	Auth     *AuthClient
	Contact  *ContactClient
	Admin    *AdminClient
}

func NewServices(baseURL string, httpClient *http.Client) Services {
	c := NewClient("storefront-api", baseURL, httpClient)
	return Services{
		Session:  NewSessionClient(c),
		Orders:   NewOrderClient(c),
		Products: NewProductClient(c),
		Auth:     NewAuthClient(c),
		Contact:  NewContactClient(c),
		Admin:    NewAdminClient(c),
	}
}
