package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/forms"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/tracing"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// app is everything a command needs, built once from config.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	cart     *cart.Manager
	api      api.Services
	pub      events.Publisher
	renderer view.Renderer
	closers  []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, pub: events.NopPublisher{}}

	if cfg.EnableTracing {
		shutdown, err := tracing.Setup(ctx, tracing.Options{
			ServiceName: events.StorefrontProducer,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
		}, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return shutdown(context.Background()) })
	}

	kv, closeStore, err := storage.Open(ctx, cfg.Store, log)
	if err != nil {
		a.close()
		return nil, errors.Wrap(err, "open cart store")
	}
	a.closers = append(a.closers, closeStore)

	a.cart = cart.NewManager(cart.NewPersistence(kv, cfg.CartKey), cart.WithLogger(log))
	a.cart.Load(ctx)

	a.api = api.NewServices(cfg.APIBaseURL, api.NewHTTPClient(cfg.UpstreamTimeout, cfg.EnableTracing))
	a.renderer = view.Renderer{
		Images:      view.NewImageResolver(cfg.AssetOrigin, cfg.StaticPrefix),
		LoginURL:    cfg.LoginPage,
		RegisterURL: cfg.RegisterPage,
	}
	return a, nil
}

// connectPublisher dials RabbitMQ when configured. A broker that cannot
// be reached only costs the CartCheckedOut event.
func (a *app) connectPublisher() {
	if a.cfg.RabbitMQURL == "" {
		return
	}
	pub, err := events.DialRabbit(a.cfg.RabbitMQURL)
	if err != nil {
		a.log.Warn("rabbitmq unavailable, checkout events disabled", zap.Error(err))
		return
	}
	a.pub = pub
	a.closers = append(a.closers, pub.Close)
}

func (a *app) checkout() *checkout.Orchestrator {
	return checkout.New(a.cart, a.api.Session, a.api.Orders,
		checkout.WithPublisher(a.pub),
		checkout.WithLogger(a.log),
		checkout.WithRedirect(a.cfg.OrdersPage),
		checkout.WithCartKey(a.cfg.CartKey),
	)
}

// login opens a session on the shared HTTP client when credentials are
// given. The session lasts for this process only.
func (a *app) login(ctx context.Context, email, password string) error {
	if email == "" && password == "" {
		return nil
	}
	creds, err := forms.Login(forms.LoginInput{Email: email, Password: password})
	if err != nil {
		return err
	}
	res, err := a.api.Auth.Login(correlation.Ensure(ctx), creds)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	a.log.Debug("logged in", zap.String("user", res.User.Email), zap.String("role", res.User.Role))
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
