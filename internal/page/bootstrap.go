package page

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/scolary/internal/domain"
)

type lister[T any] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.ListResponse[T], error)
}

// OptionSources are the endpoints filter dropdowns are filled from.
type OptionSources struct {
	Mentions      lister[domain.Mention]
	AcademicYears lister[domain.AcademicYear]
}

// Options are the filter dropdown choices.
type Options struct {
	Mentions      []domain.Mention
	AcademicYears []domain.AcademicYear
}

// Bootstrap loads mentions and academic years concurrently. Either failure
// cancels the other.
func Bootstrap(ctx context.Context, src OptionSources) (Options, error) {
	var opts Options
	g, gctx := errgroup.WithContext(ctx)

	if src.Mentions != nil {
		g.Go(func() error {
			resp, err := src.Mentions.List(gctx, domain.ListQuery{})
			if err != nil {
				return fmt.Errorf("load mentions: %w", err)
			}
			opts.Mentions = resp.Data
			return nil
		})
	}
	if src.AcademicYears != nil {
		g.Go(func() error {
			resp, err := src.AcademicYears.List(gctx, domain.ListQuery{})
			if err != nil {
				return fmt.Errorf("load academic years: %w", err)
			}
			opts.AcademicYears = resp.Data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
