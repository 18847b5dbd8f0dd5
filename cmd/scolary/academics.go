package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/filter"
	"github.com/heartmarshall/scolary/internal/listing"
	"github.com/heartmarshall/scolary/internal/page"
)

// listPage is the part of a page controller the list commands drive.
type listPage[T any] interface {
	Restore(ctx context.Context) filter.Selection
	SetSelection(ctx context.Context, sel filter.Selection) error
	SetView(v listing.View)
	GotoPage(ctx context.Context, page int) listing.State[T]
	Render(w io.Writer) error
}

type listFlags struct {
	page     int
	size     int
	view     string
	mention  int64
	journey  int64
	semester string
	search   string
	year     int64
	reset    bool
}

// registerYear adds the academic year filter for screens that support it.
func (f *listFlags) registerYear(fs *flag.FlagSet) {
	fs.Int64Var(&f.year, "year", 0, "filter by academic year id (0 clears)")
}

func (f *listFlags) register(fs *flag.FlagSet, filters bool) {
	fs.IntVar(&f.page, "page", 1, "page number")
	fs.IntVar(&f.size, "size", 0, "page size (default from config)")
	fs.StringVar(&f.view, "view", "rows", "rows or grid")
	if filters {
		fs.Int64Var(&f.mention, "mention", 0, "filter by mention id (0 clears)")
		fs.Int64Var(&f.journey, "journey", 0, "filter by journey id (0 clears)")
		fs.StringVar(&f.semester, "semester", "", "filter by semester S1..S10")
		fs.StringVar(&f.search, "search", "", "name search")
		fs.BoolVar(&f.reset, "reset", false, "forget the saved filters")
	}
}

func parseList(name string, args []string, out io.Writer, filters, year bool) (*listFlags, map[string]bool, error) {
	fs := newFlagSet(name, out)
	var f listFlags
	f.register(fs, filters)
	if year {
		f.registerYear(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return &f, set, nil
}

// list restores the saved filters, applies the flags on top through the
// mention → journey → semester cascade, saves the result and prints a page.
func list[T any](ctx context.Context, e *env, p listPage[T], f *listFlags, set map[string]bool) error {
	view, err := listing.ParseView(f.view)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	p.SetView(view)

	sel := p.Restore(ctx)
	if f.reset {
		sel = filter.Selection{}
	}
	if len(set) > 0 {
		sel, err = applyFilters(ctx, e, sel, f, set)
		if err != nil {
			return err
		}
		if err := p.SetSelection(ctx, sel); err != nil {
			return err
		}
	}

	p.GotoPage(ctx, f.page)
	return p.Render(e.stdout)
}

func applyFilters(ctx context.Context, e *env, sel filter.Selection, f *listFlags, set map[string]bool) (filter.Selection, error) {
	c := e.app.Cascade()
	sel, err := c.Restore(ctx, sel)
	if err != nil {
		return sel, err
	}
	if set["mention"] {
		if err := c.SelectMention(ctx, &sel, f.mention); err != nil {
			return sel, err
		}
	}
	if set["journey"] {
		c.SelectJourney(&sel, f.journey)
	}
	if set["semester"] {
		if err := c.SelectSemester(&sel, domain.Semester(strings.ToUpper(f.semester))); err != nil {
			return sel, err
		}
	}
	if set["year"] {
		sel.AcademicYearID = f.year
	}
	if set["search"] {
		sel.Search = f.search
	}
	return sel, nil
}

// ---------------------------------------------------------------------------
// mentions
// ---------------------------------------------------------------------------

func runMentions(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "create", "delete")
	if err != nil {
		return err
	}
	switch sub {
	case "create":
		return runMentionsCreate(ctx, e, rest)
	case "delete":
		return runMentionsDelete(ctx, e, rest)
	}

	fs := newFlagSet("mentions list", e.stdout)
	var f listFlags
	f.register(fs, false)
	withJourneys := fs.Bool("journeys", false, "also print the journeys of each mention")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	p := e.app.MentionsPage(f.size)
	if err := list[domain.Mention](ctx, e, p, &f, nil); err != nil {
		return err
	}
	if *withJourneys {
		return printJourneys(ctx, e, p.State().Data)
	}
	return nil
}

// printJourneys loads the journeys of every mention in one batched request.
func printJourneys(ctx context.Context, e *env, mentions []domain.Mention) error {
	loaders := e.app.Loaders()

	thunks := make([]func() ([]domain.Journey, error), len(mentions))
	for i, m := range mentions {
		thunks[i] = loaders.JourneysByMentionID.Load(ctx, m.ID)
	}

	fmt.Fprintln(e.stdout)
	for i, m := range mentions {
		journeys, err := thunks[i]()
		if err != nil {
			return fmt.Errorf("journeys of %s: %w", m.Name, err)
		}
		names := make([]string, len(journeys))
		for j, jr := range journeys {
			names[j] = jr.Name
		}
		if len(names) == 0 {
			names = []string{"-"}
		}
		fmt.Fprintf(e.stdout, "%s: %s\n", m.Name, strings.Join(names, ", "))
	}
	return nil
}

func runMentionsCreate(ctx context.Context, e *env, args []string) error {
	p := e.app.MentionsPage(0)
	values := p.OpenCreate()

	fs := newFlagSet("mentions create", e.stdout)
	fs.StringVar(&values.Name, "name", "", "mention name (required)")
	fs.StringVar(&values.Abbreviation, "abbreviation", "", "short code (required)")
	fs.StringVar(&values.Slug, "slug", "", "URL slug (default derived from the name)")
	fs.StringVar(&values.Plugged, "plugged", "", "plugged identifier")
	fs.StringVar(&values.Background, "background", values.Background, "hex background color")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := p.Create(ctx, values); err != nil {
		return err
	}
	return p.Render(e.stdout)
}

func runMentionsDelete(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("mentions delete", e.stdout)
	id := fs.Int64("id", 0, "mention id (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	record, err := e.app.Academics.Mentions.Get(ctx, *id)
	if err != nil {
		return err
	}

	var confirm page.Confirmer = page.PromptConfirmer{In: e.stdin, Out: e.stdout}
	if *yes {
		confirm = page.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}

	p := e.app.MentionsPage(0)
	deleted, err := p.Delete(ctx, *id, *record, confirm)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(e.stdout, "Cancelled.")
		return nil
	}
	return p.Render(e.stdout)
}

// ---------------------------------------------------------------------------
// filtered lists
// ---------------------------------------------------------------------------

func runJourneys(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "list")
	if err != nil {
		return err
	}
	fs := newFlagSet("journeys list", e.stdout)
	var f listFlags
	f.register(fs, false)
	mention := fs.Int64("mention", 0, "filter by mention id")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	p := e.app.JourneysPage(f.size)
	if *mention > 0 {
		if err := p.SetSelection(ctx, filter.Selection{MentionID: *mention}); err != nil {
			return err
		}
	}
	return list[domain.Journey](ctx, e, p, &f, nil)
}

func runTeachingUnits(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "list")
	if err != nil {
		return err
	}
	f, set, err := parseList("teaching-units list", rest, e.stdout, true, false)
	if err != nil {
		return err
	}
	return list[domain.TeachingUnit](ctx, e, e.app.TeachingUnitsPage(f.size), f, set)
}

func runConstituentElements(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "list")
	if err != nil {
		return err
	}
	f, set, err := parseList("constituent-elements list", rest, e.stdout, true, false)
	if err != nil {
		return err
	}
	return list[domain.ConstituentElement](ctx, e, e.app.ConstituentElementsPage(f.size), f, set)
}

func runGroups(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "list")
	if err != nil {
		return err
	}
	f, set, err := parseList("groups list", rest, e.stdout, true, false)
	if err != nil {
		return err
	}
	return list[domain.Group](ctx, e, e.app.GroupsPage(f.size), f, set)
}

func runOfferings(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "list")
	if err != nil {
		return err
	}
	f, set, err := parseList("offerings list", rest, e.stdout, true, true)
	if err != nil {
		return err
	}
	return list[domain.ConstituentElementOffering](ctx, e, e.app.OfferingsPage(f.size), f, set)
}

func runStudentsList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("students list", e.stdout)
	var f listFlags
	f.register(fs, false)
	f.registerYear(fs)
	fs.Int64Var(&f.mention, "mention", 0, "filter by mention id")
	fs.StringVar(&f.search, "search", "", "last name search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := e.app.StudentsPage(f.size)
	sel := filter.Selection{MentionID: f.mention, AcademicYearID: f.year, Search: f.search}
	if !sel.IsZero() {
		if err := p.SetSelection(ctx, sel); err != nil {
			return err
		}
	}
	return list[domain.Student](ctx, e, p, &f, nil)
}
