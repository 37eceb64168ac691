package api

import (
	"bytes"
	"embed"
	"fmt"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaLoginStatus  = "login_status"
	schemaOrderCreated = "order_created"
	schemaMessage      = "message"
	schemaProducts     = "products"
	schemaLogin        = "login"
	schemaProductSaved = "product_saved"
	schemaAdminOrders  = "admin_orders"
)

var schemas = mustCompileSchemas()

func mustCompileSchemas() map[string]*jsonschema.Schema {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	urls := map[string]string{}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			panic(err)
		}
		name := e.Name()[:len(e.Name())-len(path.Ext(e.Name()))]
		url := fmt.Sprintf("https://storefront.schemas.local/api/%s.schema.json", name)
		if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		urls[name] = url
	}

	out := make(map[string]*jsonschema.Schema, len(urls))
	for name, url := range urls {
		out[name] = c.MustCompile(url)
	}
	return out
}
