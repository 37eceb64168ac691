package httpapi

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/forms"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const (
	msgServerUnreachable = "Could not reach the server. Please try again later."
	msgCorrectFields     = "Please correct the highlighted fields."
)

type formErrors struct {
	Message string            `json:"message"`
	Errors  forms.FieldErrors `json:"errors"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	creds, err := forms.Login(forms.LoginInput{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	form := h.loginForm()
	if h.rejectInvalid(w, r, &form, err) {
		return
	}
	res, err := h.accounts.Login(r.Context(), creds)
	if err != nil {
		h.upstreamError(w, r, &form, "login", err)
		return
	}
	if !wantsJSON(r) {
		setFlash(w, res.Message)
		http.Redirect(w, r, "/carrito", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	reg, err := forms.Register(forms.RegistrationInput{
		Name:            r.PostForm.Get("nombre"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	})
	form := h.registerForm()
	if h.rejectInvalid(w, r, &form, err) {
		return
	}
	res, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		h.upstreamError(w, r, &form, "register", err)
		return
	}
	if !wantsJSON(r) {
		setFlash(w, res.Message)
		http.Redirect(w, r, h.pages.Login, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		h.upstreamError(w, r, nil, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Logged out.", RedirectTo: "/"})
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	msg, err := forms.Contact(forms.ContactInput{
		Name:      r.PostForm.Get("name"),
		Email:     r.PostForm.Get("email"),
		IVA:       r.PostForm.Get("iva"),
		Condition: r.PostForm.Get("condicion"),
		Subject:   r.PostForm.Get("subject"),
		Message:   r.PostForm.Get("message"),
	})
	if h.rejectInvalid(w, r, nil, err) {
		return
	}
	res, err := h.contact.Send(r.Context(), msg)
	if err != nil {
		h.upstreamError(w, r, nil, "contact", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// rejectInvalid writes 422 with the per-field messages. Invalid forms are
// never forwarded. A browser gets the form again with its values kept.
func (h *Handler) rejectInvalid(w http.ResponseWriter, r *http.Request, form *view.FormPage, err error) bool {
	if err == nil {
		return false
	}
	var fe forms.FieldErrors
	if !errors.As(err, &fe) {
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}
	if form != nil && !wantsJSON(r) {
		p := form.WithValues(r.PostForm.Get).WithErrors(fe).WithNotice(view.NoticeError, msgCorrectFields)
		h.writeForm(w, http.StatusUnprocessableEntity, p)
		return true
	}
	writeJSON(w, http.StatusUnprocessableEntity, formErrors{Message: msgCorrectFields, Errors: fe})
	return true
}

// upstreamError relays a server JSON error with its status; anything else
// becomes 502.
func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, form *view.FormPage, op string, err error) {
	status, msg := http.StatusBadGateway, msgServerUnreachable
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		status, msg = apiErr.Status, apiErr.MessageOr(http.StatusText(apiErr.Status))
	} else {
		h.log.Warn(op+" failed", zap.Error(err))
	}
	if form != nil && !wantsJSON(r) {
		h.writeForm(w, status, form.WithValues(r.PostForm.Get).WithNotice(view.NoticeError, msg))
		return
	}
	writeError(w, status, msg)
}
