package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
)

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides HTTP_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if *addr != "" {
		a.cfg.HTTPAddr = *addr
	}
	a.connectPublisher()

	h := httpapi.NewHandler(httpapi.Deps{
		Cart:     a.cart,
		Checkout: a.checkout(),
		Products: a.api.Products,
		Accounts: a.api.Auth,
		Contact:  a.api.Contact,
		Renderer: a.renderer,
		Pages: httpapi.Pages{
			Orders:          a.cfg.OrdersPage,
			Login:           a.cfg.LoginPage,
			Register:        a.cfg.RegisterPage,
			OrderHistoryURL: a.cfg.OrderHistoryURL,
		},
		Logger: a.log,
	})
	var handler http.Handler = httpapi.NewRouter(h)
	if a.cfg.EnableTracing {
		handler = otelhttp.NewHandler(handler, "storefront")
	}

	httpServer := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http listening", zap.String("addr", a.cfg.HTTPAddr), zap.String("api", a.cfg.APIBaseURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal")
	case err := <-errCh:
		a.log.Error("http server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("http shutdown", zap.Error(err))
	}
	a.log.Info("shutdown complete")
	return nil
}
