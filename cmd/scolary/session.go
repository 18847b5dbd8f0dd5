package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/scolary/internal/domain"
	authsvc "github.com/heartmarshall/scolary/internal/service/auth"
)

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("login", e.stdout)
	username := fs.String("username", "", "account email or username")
	password := fs.String("password", "", "password (default $SCOLARY_PASSWORD, else read from stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv("SCOLARY_PASSWORD")
	}
	if pw == "" {
		fmt.Fprint(e.stdout, "Password: ")
		line, err := bufio.NewReader(e.stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	state, err := e.app.Auth.Login(ctx, authsvc.LoginInput{Username: *username, Password: pw})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Logged in as %s.\n", orDash(state.Subject))
	return nil
}

func runLogout(ctx context.Context, e *env, _ []string) error {
	if err := e.app.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, e *env, _ []string) error {
	state, err := e.app.Auth.Current(ctx)
	if errors.Is(err, domain.ErrUnauthorized) {
		fmt.Fprintln(e.stdout, "Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "subject:    %s\n", orDash(state.Subject))
	if !state.ExpiresAt.IsZero() {
		fmt.Fprintf(e.stdout, "expires at: %s\n", state.ExpiresAt.Local().Format(time.DateTime))
	}

	me, err := e.app.Users.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "account:    %s %s <%s>\n", me.FirstName, me.LastName, me.Email)
	if me.IsSuperuser {
		fmt.Fprintln(e.stdout, "role:       superuser")
	}
	return nil
}

// message is the user-facing text of err: the message of a single field
// error, the joined field errors, or err itself.
func message(err error) string {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) == 0 {
		return err.Error()
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
