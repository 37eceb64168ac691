package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const (
	msgItemGone   = "That product is no longer in your cart."
	msgSaveFailed = "Your cart could not be saved. Please try again."
	msgCleared    = "Your cart has been emptied."
)

func (h *Handler) page() view.Page {
	items, total := h.cart.Snapshot()
	return h.renderer.Render(items, total)
}

// writePage answers with the whole re-rendered cart page, as HTML or as
// the JSON page model depending on Accept.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, status int, p view.Page) {
	if wantsJSON(r) {
		writeJSON(w, status, p)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.WriteHTML(w, p); err != nil {
		h.log.Error("render cart page", zap.Error(err))
	}
}

func (h *Handler) CartPage(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, http.StatusOK, h.page().WithNotice(view.NoticeInfo, takeFlash(w, r)))
}

func (h *Handler) CartJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.page())
}

type addResult struct {
	Item      *cart.LineItem `json:"item,omitempty"`
	Notice    view.Notice    `json:"notice"`
	CartCount int            `json:"cartCount"`
}

// AddItem takes the product card's form: id, nombre, precio, imagen and
// the stock shown on the card.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	id, err := strconv.ParseInt(r.PostForm.Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.PostForm.Get("precio")))
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}
	stock, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("stock")))
	if err != nil {
		stock = 0
	}

	p := cart.Product{
		ID:        id,
		Name:      r.PostForm.Get("nombre"),
		UnitPrice: price,
		Image:     r.PostForm.Get("imagen"),
	}
	item, err := h.cart.Add(r.Context(), p, stock)

	res := addResult{}
	status := http.StatusOK
	switch {
	case err == nil:
		res.Item = &item
		res.Notice = view.Notice{Level: view.NoticeInfo, Text: view.AddedMessage(item)}
	default:
		var se *cart.StockError
		if errors.As(err, &se) {
			status = http.StatusConflict
			res.Notice = view.Notice{Level: view.NoticeError, Text: view.StockMessage(se)}
		} else {
			h.log.Error("add to cart", zap.Int64("product_id", id), zap.Error(err))
			status = http.StatusInternalServerError
			res.Notice = view.Notice{Level: view.NoticeError, Text: msgSaveFailed}
		}
	}
	res.CartCount = h.cart.Len()

	if wantsJSON(r) {
		writeJSON(w, status, res)
		return
	}
	h.writeProducts(w, r, status, &res.Notice)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	err := h.cart.UpdateQuantity(r.Context(), id, cart.ParseQuantity(r.PostForm.Get("cantidad")))
	h.afterMutation(w, r, err, "")
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	h.afterMutation(w, r, h.cart.Remove(r.Context(), id), "")
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.afterMutation(w, r, h.cart.Clear(r.Context()), msgCleared)
}

// afterMutation re-renders the page. A stale item id leaves the cart as it
// was and says so.
func (h *Handler) afterMutation(w http.ResponseWriter, r *http.Request, err error, okMessage string) {
	p := h.page()
	switch {
	case err == nil:
		h.writePage(w, r, http.StatusOK, p.WithNotice(view.NoticeInfo, okMessage))
	case errors.Is(err, cart.ErrItemNotFound):
		h.writePage(w, r, http.StatusNotFound, p.WithNotice(view.NoticeError, msgItemGone))
	default:
		h.log.Error("cart update", zap.Error(err))
		h.writePage(w, r, http.StatusInternalServerError, p.WithNotice(view.NoticeError, msgSaveFailed))
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

type purchaseResult struct {
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	OrderID  string `json:"orderId,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Purchase runs checkout. A completed order redirects to the orders page
// with the confirmation in a flash cookie and the id in the query. Every
// other outcome re-renders the unchanged cart with the message.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	out := h.checkout.Purchase(r.Context())
	status := purchaseStatus(out.Kind)

	if wantsJSON(r) {
		writeJSON(w, status, purchaseResult{
			Outcome:  out.Kind.String(),
			Message:  out.Message,
			OrderID:  out.OrderID,
			Redirect: out.Redirect,
		})
		return
	}

	if out.Success() {
		target := out.Redirect
		if target == "" {
			target = h.pages.Orders
		}
		setFlash(w, out.Message)
		http.Redirect(w, r, withOrderID(target, out.OrderID), http.StatusSeeOther)
		return
	}
	p := h.page().WithNotice(view.NoticeError, out.Message)
	if out.Kind == checkout.LoginRequired {
		p = h.renderer.WithLoginPrompt(p)
	}
	h.writePage(w, r, status, p)
}

func purchaseStatus(k checkout.Kind) int {
	switch k {
	case checkout.Completed:
		return http.StatusOK
	case checkout.EmptyCart:
		return http.StatusBadRequest
	case checkout.LoginRequired:
		return http.StatusUnauthorized
	case checkout.OrderRejected, checkout.Busy:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
