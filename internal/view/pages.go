package view

import (
	"io"

	"github.com/pkg/errors"
)

// OrderPlaced is the page shown after checkout redirects to the orders
// page. Notice carries the server's confirmation, which includes the id.
type OrderPlaced struct {
	OrderID    string  `json:"orderId,omitempty"`
	Notice     *Notice `json:"notice,omitempty"`
	HistoryURL string  `json:"historyUrl"`
	CartCount  int     `json:"cartCount"`
}

type FormField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type Link struct {
	URL   string
	Label string
}

// FormPage is a login or registration form. Fields keep their submitted
// values and per-field errors when the form is shown again.
type FormPage struct {
	Title  string
	Action string
	Submit string
	Fields []FormField
	Notice *Notice
	Links  []Link
}

// WithErrors copies each message onto the field of the same name.
func (p FormPage) WithErrors(errs map[string]string) FormPage {
	fields := make([]FormField, len(p.Fields))
	copy(fields, p.Fields)
	for i := range fields {
		fields[i].Error = errs[fields[i].Name]
	}
	p.Fields = fields
	return p
}

// WithValues fills non-password fields from submitted values.
func (p FormPage) WithValues(get func(string) string) FormPage {
	fields := make([]FormField, len(p.Fields))
	copy(fields, p.Fields)
	for i := range fields {
		if fields[i].Type != "password" {
			fields[i].Value = get(fields[i].Name)
		}
	}
	p.Fields = fields
	return p
}

func (p FormPage) WithNotice(level NoticeLevel, text string) FormPage {
	if text != "" {
		p.Notice = &Notice{Level: level, Text: text}
	}
	return p
}

func WriteOrderPlacedHTML(w io.Writer, p OrderPlaced) error {
	return errors.Wrap(htmlTemplates.ExecuteTemplate(w, "orders.html.tmpl", p), "render orders page")
}

func WriteFormHTML(w io.Writer, p FormPage) error {
	return errors.Wrap(htmlTemplates.ExecuteTemplate(w, "form.html.tmpl", p), "render form page")
}
