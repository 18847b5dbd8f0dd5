package main

import (
	"context"
	"fmt"
	"strings"
)

// runUsers promotes an account to superuser by email. Used to bootstrap
// the first administrator.
func runUsers(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "promote")
	if err != nil {
		return err
	}
	fs := newFlagSet("users promote", e.stdout)
	email := fs.String("email", "", "email of the user to promote (required)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: -email is required", errUsage)
	}

	if _, err := e.app.Users.Promote(ctx, strings.TrimSpace(*email)); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "User %q promoted to admin.\n", *email)
	return nil
}

// runFilters forgets the saved per-page filters.
func runFilters(ctx context.Context, e *env, args []string) error {
	if _, _, err := subcommand(args, "clear"); err != nil {
		return err
	}

	keys, err := e.app.Store.Keys(ctx, "")
	if err != nil {
		return err
	}
	var stale []string
	for _, k := range keys {
		if strings.HasSuffix(k, ".filters") {
			stale = append(stale, k)
		}
	}
	if len(stale) > 0 {
		if err := e.app.Store.Delete(ctx, stale...); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.stdout, "Removed %d saved filters.\n", len(stale))
	return nil
}
