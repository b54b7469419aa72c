// Command customer-form fills in the customer sign-up form from a terminal
// and prints the saved payload.
//
// Usage:
//
//	customer-form fill [--test-data] [--require-valid]
//	customer-form schema [--document]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "customer-form: %v\n", err)
		stop()
		os.Exit(1)
	}
}
