package httpapi

import (
	"encoding/base64"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// flashCookie carries one message across a redirect. It is cleared by the
// page that shows it.
const flashCookie = "storefront_aviso"

func setFlash(w http.ResponseWriter, msg string) {
	if msg == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(raw)
}

// withOrderID adds ?pedido=<id> to target, keeping any query it has.
func withOrderID(target, id string) string {
	u, err := url.Parse(target)
	if err != nil || id == "" {
		return target
	}
	q := u.Query()
	q.Set("pedido", id)
	u.RawQuery = q.Encode()
	return u.String()
}

// OrdersPage confirms the order checkout just placed. The confirmation
// comes from the flash cookie; the id alone is enough when it is missing.
func (h *Handler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	p := view.OrderPlaced{
		OrderID:    r.URL.Query().Get("pedido"),
		HistoryURL: h.pages.OrderHistoryURL,
		CartCount:  h.cart.Len(),
	}
	msg := takeFlash(w, r)
	if msg == "" && p.OrderID != "" {
		msg = "Order ID: " + p.OrderID
	}
	if msg != "" {
		p.Notice = &view.Notice{Level: view.NoticeInfo, Text: msg}
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, p)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := view.WriteOrderPlacedHTML(w, p); err != nil {
		h.log.Error("render orders page", zap.Error(err))
	}
}

func (h *Handler) loginForm() view.FormPage {
	return view.FormPage{
		Title:  "Iniciar sesión",
		Action: h.pages.Login,
		Submit: "Log in",
		Fields: []view.FormField{
			{Name: "email", Label: "Email", Type: "email"},
			{Name: "password", Label: "Password", Type: "password"},
		},
		Links: []view.Link{{URL: h.pages.Register, Label: "No account yet? Register"}},
	}
}

func (h *Handler) registerForm() view.FormPage {
	return view.FormPage{
		Title:  "Registro",
		Action: h.pages.Register,
		Submit: "Register",
		Fields: []view.FormField{
			{Name: "nombre", Label: "Name", Type: "text"},
			{Name: "email", Label: "Email", Type: "email"},
			{Name: "password", Label: "Password", Type: "password"},
			{Name: "confirmPassword", Label: "Confirm password", Type: "password"},
		},
		Links: []view.Link{{URL: h.pages.Login, Label: "Already registered? Log in"}},
	}
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.writeForm(w, http.StatusOK, h.loginForm().WithNotice(view.NoticeInfo, takeFlash(w, r)))
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.writeForm(w, http.StatusOK, h.registerForm())
}

func (h *Handler) writeForm(w http.ResponseWriter, status int, p view.FormPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.WriteFormHTML(w, p); err != nil {
		h.log.Error("render form page", zap.String("action", p.Action), zap.Error(err))
	}
}
