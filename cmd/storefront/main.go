package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

const usage = `usage: storefront <command> [flags]

commands:
  serve                       run the storefront web server (default)
  products                    list the catalog
  cart show|add|remove|qty|clear|checkout
  register | login | contact  account and contact forms
  admin <subcommand>          product, order and user administration
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(ctx, args)
	case "products":
		return productsCmd(ctx, args, stdout)
	case "cart":
		return cartCmd(ctx, args, stdin, stdout)
	case "register":
		return registerCmd(ctx, args, stdout)
	case "login":
		return loginCmd(ctx, args, stdout)
	case "contact":
		return contactCmd(ctx, args, stdout)
	case "admin":
		return adminCmd(ctx, args, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return errors.Errorf("unknown command %q\n%s", cmd, usage)
}
