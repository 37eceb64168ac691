package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

func productsCmd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the page model as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	list, err := a.api.Products.List(correlation.Ensure(ctx))
	if err != nil {
		return err
	}
	products := make([]view.Product, 0, len(list))
	for _, p := range list {
		products = append(products, view.Product{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Stock: p.Stock})
	}

	items := a.cart.Items()
	inCart := make(map[int64]int, len(items))
	for _, it := range items {
		inCart[it.ID] = it.Quantity
	}
	page := a.renderer.RenderProducts(products, inCart, len(items))

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return view.WriteProductsText(stdout, page)
}
