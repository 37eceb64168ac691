package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/forms"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const adminUsage = `usage: storefront admin -email E -password P <subcommand>

  product-create -nombre N -precio P -stock S -imagen FILE
  product-update -id ID -nombre N -precio P -stock S [-imagen FILE]
  product-delete -id ID
  orders
  order-status -id ID -estado Pendiente|Aceptado|Enviado
  order-delete -id ID
  user-role -id ID -role cliente|admin
  user-delete -id ID
`

func adminCmd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	email := fs.String("email", os.Getenv("STOREFRONT_ADMIN_EMAIL"), "admin email")
	password := fs.String("password", os.Getenv("STOREFRONT_ADMIN_PASSWORD"), "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(adminUsage)
	}
	sub, rest := fs.Arg(0), fs.Args()[1:]

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	ctx = correlation.Ensure(ctx)
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}
	admin := a.api.Admin

	switch sub {
	case "product-create", "product-update":
		return productSave(ctx, admin, sub, rest, stdout)
	case "product-delete":
		id, err := idFlag(sub, rest, nil)
		if err != nil {
			return err
		}
		return printMessage(stdout)(admin.DeleteProduct(ctx, id))
	case "orders":
		orders, err := admin.ListOrders(ctx)
		if err != nil {
			return err
		}
		return writeOrders(stdout, orders)
	case "order-status":
		var estado string
		id, err := idFlag(sub, rest, func(fs *flag.FlagSet) { fs.StringVar(&estado, "estado", "", "new status") })
		if err != nil {
			return err
		}
		if err := forms.OrderStatus(estado); err != nil {
			return err
		}
		return printMessage(stdout)(admin.UpdateOrderStatus(ctx, id, estado))
	case "order-delete":
		id, err := idFlag(sub, rest, nil)
		if err != nil {
			return err
		}
		return printMessage(stdout)(admin.DeleteOrder(ctx, id))
	case "user-role":
		var role string
		id, err := idFlag(sub, rest, func(fs *flag.FlagSet) { fs.StringVar(&role, "role", "", "new role") })
		if err != nil {
			return err
		}
		if err := forms.Role(role); err != nil {
			return err
		}
		return printMessage(stdout)(admin.ChangeUserRole(ctx, id, role))
	case "user-delete":
		id, err := idFlag(sub, rest, nil)
		if err != nil {
			return err
		}
		return printMessage(stdout)(admin.DeleteUser(ctx, id))
	}
	return errors.Errorf("unknown admin subcommand %q\n%s", sub, adminUsage)
}

// idFlag parses -id plus whatever extra flags the subcommand declares.
func idFlag(name string, args []string, extra func(*flag.FlagSet)) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.Int64("id", 0, "record id")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *id <= 0 {
		return 0, errors.Errorf("%s: -id required", name)
	}
	return *id, nil
}

func printMessage(stdout io.Writer) func(api.MessageResponse, error) error {
	return func(res api.MessageResponse, err error) error {
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, res.Message)
		return nil
	}
}

func productSave(ctx context.Context, admin *api.AdminClient, sub string, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id (update only)")
	var in forms.ProductInput
	fs.StringVar(&in.Name, "nombre", "", "product name")
	fs.StringVar(&in.Price, "precio", "", "unit price")
	fs.StringVar(&in.Stock, "stock", "", "units in stock")
	imagePath := fs.String("imagen", "", "image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creating := sub == "product-create"
	if !creating && *id <= 0 {
		return errors.Errorf("%s: -id required", sub)
	}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return errors.Wrap(err, "open image")
		}
		defer f.Close()
		in.Image = &api.ImageUpload{Filename: filepath.Base(*imagePath), Content: f}
	}

	form, err := forms.Product(in, creating)
	if err != nil {
		return err
	}

	var saved api.ProductSaved
	if creating {
		saved, err = admin.CreateProduct(ctx, form)
	} else {
		saved, err = admin.UpdateProduct(ctx, *id, form)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (#%d %s $%s, stock %d)\n", saved.Message, saved.Product.ID, saved.Product.Name, view.Money(saved.Product.Price), saved.Product.Stock)
	return nil
}

func writeOrders(stdout io.Writer, orders []api.AdminOrder) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tBUYER\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s <%s>\t%s\t%d\t$%s\n", o.ID, o.PlacedAt, o.BuyerName, o.BuyerEmail, o.Status, len(o.Items), view.Money(o.Total))
	}
	return tw.Flush()
}
