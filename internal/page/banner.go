package page

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type BannerType string

const (
	BannerSuccess BannerType = "success"
	BannerError   BannerType = "error"
)

// Banner is the feedback shown after a mutation until dismissed or replaced.
type Banner struct {
	Type BannerType
	Text string
}

func (b Banner) String() string {
	if b.Type == BannerError {
		return "Error: " + b.Text
	}
	return b.Text
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// PromptConfirmer asks on a terminal; only "y" or "yes" confirms.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.Out, "%s [y/N] ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
