package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const msgCatalogUnavailable = "Products could not be loaded. Please try again later."

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, http.StatusOK, nil)
}

func (h *Handler) writeProducts(w http.ResponseWriter, r *http.Request, status int, notice *view.Notice) {
	page := h.productsPage(r)
	if notice != nil {
		page = page.WithNotice(notice.Level, notice.Text)
	}
	if wantsJSON(r) {
		writeJSON(w, status, page)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.WriteProductsHTML(w, page); err != nil {
		h.log.Error("render products page", zap.Error(err))
	}
}

func (h *Handler) productsPage(r *http.Request) view.ProductsPage {
	items := h.cart.Items()
	inCart := make(map[int64]int, len(items))
	for _, it := range items {
		inCart[it.ID] = it.Quantity
	}

	list, err := h.products.List(r.Context())
	if err != nil {
		h.log.Warn("list products", zap.Error(err))
		return h.renderer.RenderProducts(nil, inCart, len(items)).WithNotice(view.NoticeError, msgCatalogUnavailable)
	}
	products := make([]view.Product, 0, len(list))
	for _, p := range list {
		products = append(products, view.Product{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Stock: p.Stock})
	}
	return h.renderer.RenderProducts(products, inCart, len(items))
}
