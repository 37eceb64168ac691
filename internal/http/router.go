package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlation.Middleware)
	r.Use(requestLogger(h.log))

	r.Get("/health", h.Health)

	r.Get("/productos", h.Products)

	r.Route("/carrito", func(r chi.Router) {
		r.Get("/", h.CartPage)
		r.Post("/items", h.AddItem)
		r.Post("/items/{id}/cantidad", h.UpdateQuantity)
		r.Post("/items/{id}/eliminar", h.RemoveItem)
		r.Post("/vaciar", h.ClearCart)
		r.Post("/comprar", h.Purchase)
	})
	r.Get("/api/carrito", h.CartJSON)

	r.Get(h.pages.Orders, h.OrdersPage)
	r.Get(h.pages.Login, h.LoginPage)
	r.Post(h.pages.Login, h.Login)
	r.Get(h.pages.Register, h.RegisterPage)
	r.Post(h.pages.Register, h.Register)
	r.Post("/logout", h.Logout)
	r.Post("/contacto", h.Contact)

	return r
}
