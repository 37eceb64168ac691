package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/forms"
)

func registerCmd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var in forms.RegistrationInput
	fs.StringVar(&in.Name, "nombre", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.ConfirmPassword, "confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := forms.Register(in)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.api.Auth.Register(correlation.Ensure(ctx), reg)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Message)
	return nil
}

// loginCmd checks credentials against the server. The session it opens
// ends with the process; commands that need one take -email/-password.
func loginCmd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	var in forms.LoginInput
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	creds, err := forms.Login(in)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.api.Auth.Login(correlation.Ensure(ctx), creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%s, %s)\n", res.Message, res.User.Name, res.User.Role)
	return nil
}

func contactCmd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	var in forms.ContactInput
	fs.StringVar(&in.Name, "name", "", "your name")
	fs.StringVar(&in.Email, "email", "", "reply-to address")
	fs.StringVar(&in.IVA, "iva", "", "VAT condition")
	fs.StringVar(&in.Condition, "condicion", "", "purchase condition")
	fs.StringVar(&in.Subject, "subject", "", "subject")
	fs.StringVar(&in.Message, "message", "", "message body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := forms.Contact(in)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.api.Contact.Send(correlation.Ensure(ctx), msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Message)
	return nil
}
