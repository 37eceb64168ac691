package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const cartUsage = `usage: storefront cart <subcommand>

  show [-json]                   print the cart
  add -id N                      add one unit of a catalog product
  remove ID | remove -at POS     remove a line item
  qty ID QTY | qty -at POS QTY   set a quantity (values below 1 become 1)
  clear [-y]                     empty the cart
  checkout [-email E -password P] place the order
`

func cartCmd(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, args := args[0], args[1:]

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	ctx = correlation.Ensure(ctx)

	switch sub {
	case "show":
		return cartShow(a, args, stdout)
	case "add":
		return cartAdd(ctx, a, args, stdout)
	case "remove":
		return cartRemove(ctx, a, args, stdout)
	case "qty":
		return cartQty(ctx, a, args, stdout)
	case "clear":
		return cartClear(ctx, a, args, stdin, stdout)
	case "checkout":
		return cartCheckout(ctx, a, args, stdout)
	}
	return errors.Errorf("unknown cart subcommand %q\n%s", sub, cartUsage)
}

func printCart(a *app, stdout io.Writer, notice string) error {
	items, total := a.cart.Snapshot()
	p := a.renderer.Render(items, total).WithNotice(view.NoticeInfo, notice)
	return view.WriteText(stdout, p)
}

func cartShow(a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cart show", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the page model as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *asJSON {
		items, total := a.cart.Snapshot()
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a.renderer.Render(items, total))
	}
	return printCart(a, stdout, "")
}

func cartAdd(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, found, err := a.api.Products.Get(ctx, *id)
	if err != nil {
		return errors.Wrap(err, "load product")
	}
	if !found {
		return errors.Errorf("product %d not found", *id)
	}

	item, err := a.cart.Add(ctx, cart.Product{ID: p.ID, Name: p.Name, UnitPrice: p.Price, Image: p.Image}, p.Stock)
	if err != nil {
		var se *cart.StockError
		if errors.As(err, &se) {
			return errors.New(view.StockMessage(se))
		}
		return err
	}
	return printCart(a, stdout, view.AddedMessage(item))
}

// target reads either a positional item id or -at POS (1-based).
func target(name string, args []string) (id int64, index int, rest []string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	at := fs.Int("at", 0, "1-based display position instead of an id")
	if err := fs.Parse(args); err != nil {
		return 0, -1, nil, err
	}
	rest = fs.Args()
	if *at > 0 {
		return 0, *at - 1, rest, nil
	}
	if len(rest) == 0 {
		return 0, -1, nil, errors.Errorf("%s: item id or -at position required", name)
	}
	id, err = strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return 0, -1, nil, errors.Errorf("%s: invalid item id %q", name, rest[0])
	}
	return id, -1, rest[1:], nil
}

func cartRemove(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	id, index, _, err := target("cart remove", args)
	if err != nil {
		return err
	}
	if index >= 0 {
		err = a.cart.RemoveAt(ctx, index)
	} else {
		err = a.cart.Remove(ctx, id)
	}
	if err != nil {
		return err
	}
	return printCart(a, stdout, "")
}

func cartQty(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	id, index, rest, err := target("cart qty", args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.New("cart qty: quantity required")
	}
	q := cart.ParseQuantity(rest[0])
	if index >= 0 {
		err = a.cart.UpdateQuantityAt(ctx, index, q)
	} else {
		err = a.cart.UpdateQuantity(ctx, id, q)
	}
	if err != nil {
		return err
	}
	return printCart(a, stdout, "")
}

func cartClear(ctx context.Context, a *app, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("cart clear", flag.ContinueOnError)
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cart.Len() == 0 {
		return printCart(a, stdout, "")
	}
	if !*yes && !confirm(stdin, stdout, "Are you sure you want to empty the cart? [y/N] ") {
		return printCart(a, stdout, "Cart left as it was.")
	}
	if err := a.cart.Clear(ctx); err != nil {
		return err
	}
	return printCart(a, stdout, "Your cart has been emptied.")
}

func confirm(stdin io.Reader, stdout io.Writer, prompt string) bool {
	fmt.Fprint(stdout, prompt)
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func cartCheckout(ctx context.Context, a *app, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cart checkout", flag.ContinueOnError)
	email := fs.String("email", "", "log in with this email first")
	password := fs.String("password", "", "password for -email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.connectPublisher()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}

	out := a.checkout().Purchase(ctx)
	switch out.Kind {
	case checkout.Completed:
		fmt.Fprintln(stdout, out.Message)
		fmt.Fprintf(stdout, "See your orders at %s\n", a.cfg.OrderHistoryURL)
		return nil
	case checkout.LoginRequired:
		fmt.Fprintln(stdout, "Log in with -email and -password, or create an account with `storefront register`.")
	}
	return errors.New(out.Message)
}
