// Package checkout runs the purchase handshake: confirm the session, submit
// the cart as an order, and empty the cart only once the server confirms.
package checkout

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
)

type SessionChecker interface {
	CheckLoginStatus(ctx context.Context) (bool, error)
}

type OrderSubmitter interface {
	CreateOrder(ctx context.Context, req api.OrderRequest) (api.OrderCreated, error)
}

// Cart is the part of cart.Manager the orchestrator needs.
type Cart interface {
	Snapshot() ([]cart.LineItem, decimal.Decimal)
	Clear(ctx context.Context) error
}

type Orchestrator struct {
	cart     Cart
	session  SessionChecker
	orders   OrderSubmitter
	pub      events.Publisher
	log      *zap.Logger
	redirect string
	cartKey  string
	state    atomic.Int32
}

type Option func(*Orchestrator)

func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.pub = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRedirect sets where the user goes after a completed order.
func WithRedirect(path string) Option {
	return func(o *Orchestrator) { o.redirect = path }
}

func WithCartKey(key string) Option {
	return func(o *Orchestrator) { o.cartKey = key }
}

func New(c Cart, session SessionChecker, orders OrderSubmitter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:     c,
		session:  session,
		orders:   orders,
		pub:      events.NopPublisher{},
		log:      zap.NewNop(),
		redirect: "/mis_pedidos",
		cartKey:  cart.DefaultKey,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State { return State(o.state.Load()) }

// Purchase runs one attempt. It never returns an error: every failure is
// folded into the Outcome, and nothing is retried.
func (o *Orchestrator) Purchase(ctx context.Context) Outcome {
	items, total := o.cart.Snapshot()
	if len(items) == 0 {
		return Outcome{Kind: EmptyCart, Message: msgEmptyCart}
	}

	if !o.state.CompareAndSwap(int32(Idle), int32(CheckingAuth)) {
		return Outcome{Kind: Busy, Message: msgBusy}
	}
	defer o.state.Store(int32(Idle))

	log := o.log.With(zap.String("correlation_id", correlation.FromContext(ctx)), zap.Int("items", len(items)))

	loggedIn, err := o.session.CheckLoginStatus(ctx)
	if err != nil {
		log.Warn("login status check failed", zap.Error(err))
		return Outcome{Kind: CommunicationError, Message: msgSessionFailed, Err: err}
	}
	if !loggedIn {
		log.Info("purchase needs login")
		return Outcome{Kind: LoginRequired, Message: msgLoginRequired}
	}

	o.state.Store(int32(Submitting))
	created, err := o.orders.CreateOrder(ctx, api.NewOrderRequest(items, total))
	if err != nil {
		var apiErr *api.APIError
		switch {
		case errors.As(err, &apiErr):
			log.Warn("order rejected", zap.Int("status", apiErr.Status), zap.String("server_message", apiErr.Message))
			return Outcome{Kind: OrderRejected, Message: apiErr.MessageOr(serverErrorFallback(apiErr.Status)), Err: err}
		case errors.Is(err, api.ErrMalformedResponse):
			log.Error("unexpected order response", zap.Error(err))
			return Outcome{Kind: ProcessingError, Message: msgUnexpected, Err: err}
		default:
			log.Error("order request failed", zap.Error(err))
			return Outcome{Kind: ProcessingError, Message: msgUnreachable, Err: err}
		}
	}

	orderID := string(created.OrderID)
	log = log.With(zap.String("order_id", orderID))
	log.Info("order created", zap.String("total", total.StringFixed(2)))

	// The order exists now; a caller that went away must not leave it in the cart.
	if err := o.cart.Clear(context.WithoutCancel(ctx)); err != nil {
		// Still report the order as placed.
		log.Error("clearing cart after order failed", zap.Error(err))
	}

	ev := events.BuildCartCheckedOut(orderID, o.cartKey, items, total, events.EnvelopeOptions{
		CorrelationID: correlation.FromContext(ctx),
	})
	if err := o.pub.PublishCartCheckedOut(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn("publish CartCheckedOut failed", zap.Error(err))
	}

	return Outcome{
		Kind:     Completed,
		Message:  completedMessage(created.Message, orderID),
		OrderID:  orderID,
		Redirect: o.redirect,
	}
}
