package checkout_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CartCheckedOut
}

func (p *recordingPublisher) PublishCartCheckedOut(_ context.Context, ev events.CartCheckedOut) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type checkoutWorld struct {
	srv  *httptest.Server
	kv   *storage.MemoryStore
	cart *cart.Manager
	pub  *recordingPublisher
	orch *checkout.Orchestrator
	out  checkout.Outcome

	mu            sync.Mutex
	sessionCalls  int
	orderCalls    int
	lastOrderBody map[string]any
	session       http.HandlerFunc
	order         http.HandlerFunc
}

func (w *checkoutWorld) reset() {
	if w.srv != nil {
		w.srv.Close()
	}
	w.out = checkout.Outcome{}
	w.sessionCalls, w.orderCalls, w.lastOrderBody = 0, 0, nil
	w.session = func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(http.StatusNotFound) }
	w.order = func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(http.StatusNotFound) }

	mux := http.NewServeMux()
	mux.HandleFunc("/api/check_login_status", func(rw http.ResponseWriter, r *http.Request) {
		w.mu.Lock()
		w.sessionCalls++
		h := w.session
		w.mu.Unlock()
		h(rw, r)
	})
	mux.HandleFunc("/api/pedidos", func(rw http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]any
		_ = dec.Decode(&body)
		w.mu.Lock()
		w.orderCalls++
		w.lastOrderBody = body
		h := w.order
		w.mu.Unlock()
		h(rw, r)
	})
	w.srv = httptest.NewServer(mux)

	w.kv = storage.NewMemoryStore()
	w.pub = &recordingPublisher{}
	svc := api.NewServices(w.srv.URL, api.NewHTTPClient(0, false))
	w.cart = cart.NewManager(cart.NewPersistence(w.kv, cart.DefaultKey))
	w.orch = checkout.New(w.cart, svc.Session, svc.Orders, checkout.WithPublisher(w.pub))
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		_, _ = io.WriteString(rw, body)
	}
}

func (w *checkoutWorld) anEmptyPersistedCart() error {
	if err := w.kv.Set(context.Background(), cart.DefaultKey, []byte("[]")); err != nil {
		return err
	}
	w.cart.Load(context.Background())
	return nil
}

func (w *checkoutWorld) theCartContainsProduct(id int64, price string, qty int) error {
	ctx := context.Background()
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	if _, err := w.cart.Add(ctx, cart.Product{ID: id, Name: "producto " + strconv.FormatInt(id, 10), UnitPrice: p, Image: "productos/p.png"}, qty+1); err != nil {
		return err
	}
	return w.cart.UpdateQuantity(ctx, id, qty)
}

func (w *checkoutWorld) theServerReportsTheSession(state string) error {
	w.session = jsonReply(http.StatusOK, fmt.Sprintf(`{"isLoggedIn":%t}`, state == "logged in"))
	return nil
}

func (w *checkoutWorld) theSessionCheckAnswersWith(status int, contentType string) error {
	w.session = func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", contentType)
		rw.WriteHeader(status)
		_, _ = io.WriteString(rw, "<html>login</html>")
	}
	return nil
}

func (w *checkoutWorld) theServerCreatesOrder(id int, message string) error {
	w.order = jsonReply(http.StatusCreated, fmt.Sprintf(`{"message":%q,"pedido_id":%d}`, message, id))
	return nil
}

func (w *checkoutWorld) theServerRejectsTheOrderWithMessage(status int, message string) error {
	b, _ := json.Marshal(map[string]string{"message": message})
	w.order = jsonReply(status, string(b))
	return nil
}

func (w *checkoutWorld) theServerRejectsTheOrderWithoutMessage(status int) error {
	w.order = jsonReply(status, `{}`)
	return nil
}

func (w *checkoutWorld) theOrderEndpointAnswersWithNonJSON() error {
	w.order = func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/html")
		rw.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(rw, "<h1>Internal Server Error</h1>")
	}
	return nil
}

func (w *checkoutWorld) iPurchaseTheCart() error {
	w.out = w.orch.Purchase(context.Background())
	return nil
}

func (w *checkoutWorld) theOutcomeIs(kind string) error {
	if w.out.Kind.String() != kind {
		return fmt.Errorf("expected outcome %s, got %s (%s, err=%v)", kind, w.out.Kind, w.out.Message, w.out.Err)
	}
	return nil
}

func (w *checkoutWorld) theNoticeContains(text string) error {
	if !strings.Contains(w.out.Message, text) {
		return fmt.Errorf("notice %q does not contain %q", w.out.Message, text)
	}
	return nil
}

func (w *checkoutWorld) theCartIsEmpty() error {
	if n := w.cart.Len(); n != 0 {
		return fmt.Errorf("cart has %d items", n)
	}
	return nil
}

func (w *checkoutWorld) thePersistedCartIs(raw string) error {
	got, err := w.kv.Get(context.Background(), cart.DefaultKey)
	if err != nil {
		return err
	}
	if string(got) != raw {
		return fmt.Errorf("persisted cart is %s, want %s", got, raw)
	}
	return nil
}

func (w *checkoutWorld) theCartStillHolds(id int64, qty int) error {
	it, ok := w.cart.Lookup(id)
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	if it.Quantity != qty {
		return fmt.Errorf("product %d has quantity %d, want %d", id, it.Quantity, qty)
	}
	reloaded := cart.NewManager(cart.NewPersistence(w.kv, cart.DefaultKey)).Load(context.Background())
	for _, r := range reloaded {
		if r.ID == id && r.Quantity == qty {
			return nil
		}
	}
	return fmt.Errorf("persisted cart lost product %d", id)
}

func (w *checkoutWorld) orderRequestsWereSent(n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.orderCalls != n {
		return fmt.Errorf("expected %d order requests, got %d", n, w.orderCalls)
	}
	return nil
}

func (w *checkoutWorld) noSessionCheckWasMade() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sessionCalls != 0 {
		return fmt.Errorf("expected no session check, got %d", w.sessionCalls)
	}
	return nil
}

func (w *checkoutWorld) theOrderRequestCarriedATotalOf(total string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	got, ok := w.lastOrderBody["total"].(json.Number)
	if !ok {
		return fmt.Errorf("order body has no numeric total: %v", w.lastOrderBody)
	}
	if !decimal.RequireFromString(got.String()).Equal(decimal.RequireFromString(total)) {
		return fmt.Errorf("order total %s, want %s", got, total)
	}
	return nil
}

func (w *checkoutWorld) theUserIsRedirectedTo(path string) error {
	if w.out.Redirect != path {
		return fmt.Errorf("redirect %q, want %q", w.out.Redirect, path)
	}
	return nil
}

func (w *checkoutWorld) aCartCheckedOutEventWasPublished(orderID string) error {
	w.pub.mu.Lock()
	defer w.pub.mu.Unlock()
	if len(w.pub.events) != 1 {
		return fmt.Errorf("expected 1 event, got %d", len(w.pub.events))
	}
	if got := w.pub.events[0].Payload.OrderID; got != orderID {
		return fmt.Errorf("event for order %s, want %s", got, orderID)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	w := &checkoutWorld{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		w.reset()
		return c, nil
	})
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if w.srv != nil {
			w.srv.Close()
			w.srv = nil
		}
		return c, nil
	})

	ctx.Step(`^an empty persisted cart$`, w.anEmptyPersistedCart)
	ctx.Step(`^the cart contains product (\d+) priced ([\d.]+) with quantity (\d+)$`, w.theCartContainsProduct)
	ctx.Step(`^the server reports the session as (logged in|logged out)$`, w.theServerReportsTheSession)
	ctx.Step(`^the session check answers with status (\d+) and content type "([^"]*)"$`, w.theSessionCheckAnswersWith)
	ctx.Step(`^the server creates order (\d+) with message "([^"]*)"$`, w.theServerCreatesOrder)
	ctx.Step(`^the server rejects the order with status (\d+) and message "([^"]*)"$`, w.theServerRejectsTheOrderWithMessage)
	ctx.Step(`^the server rejects the order with status (\d+) and no message$`, w.theServerRejectsTheOrderWithoutMessage)
	ctx.Step(`^the order endpoint answers with non-JSON content$`, w.theOrderEndpointAnswersWithNonJSON)

	ctx.Step(`^I purchase the cart$`, w.iPurchaseTheCart)

	ctx.Step(`^the outcome is "([^"]*)"$`, w.theOutcomeIs)
	ctx.Step(`^the notice contains "([^"]*)"$`, w.theNoticeContains)
	ctx.Step(`^the cart is empty$`, w.theCartIsEmpty)
	ctx.Step(`^the persisted cart is "([^"]*)"$`, w.thePersistedCartIs)
	ctx.Step(`^the cart still holds product (\d+) with quantity (\d+)$`, w.theCartStillHolds)
	ctx.Step(`^(\d+) order requests? (?:was|were) sent$`, w.orderRequestsWereSent)
	ctx.Step(`^no session check was made$`, w.noSessionCheckWasMade)
	ctx.Step(`^the order request carried a total of ([\d.]+)$`, w.theOrderRequestCarriedATotalOf)
	ctx.Step(`^the user is redirected to "([^"]*)"$`, w.theUserIsRedirectedTo)
	ctx.Step(`^a CartCheckedOut event for order "([^"]*)" was published$`, w.aCartCheckedOutEventWasPublished)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
