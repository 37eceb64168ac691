package view

import (
	"embed"
	"html/template"
	"io"
	ttemplate "text/template"

	"github.com/pkg/errors"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	htmlTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))
	textTemplates = ttemplate.Must(ttemplate.ParseFS(templatesFS, "templates/*.txt.tmpl"))
)

func WriteHTML(w io.Writer, p Page) error {
	return errors.Wrap(htmlTemplates.ExecuteTemplate(w, "cart.html.tmpl", p), "render cart page")
}

func WriteProductsHTML(w io.Writer, p ProductsPage) error {
	return errors.Wrap(htmlTemplates.ExecuteTemplate(w, "products.html.tmpl", p), "render products page")
}

func WriteText(w io.Writer, p Page) error {
	return errors.Wrap(textTemplates.ExecuteTemplate(w, "cart.txt.tmpl", p), "render cart")
}

func WriteProductsText(w io.Writer, p ProductsPage) error {
	return errors.Wrap(textTemplates.ExecuteTemplate(w, "products.txt.tmpl", p), "render products")
}
