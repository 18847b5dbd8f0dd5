package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/scolary/internal/app"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/form"
	"github.com/heartmarshall/scolary/internal/notify"
	"github.com/heartmarshall/scolary/internal/service/cards"
	"github.com/heartmarshall/scolary/internal/service/enrollment"
)

// ---------------------------------------------------------------------------
// cards
// ---------------------------------------------------------------------------

func runCards(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "render")
	if err != nil {
		return err
	}
	if sub == "list" {
		fs := newFlagSet("cards list", e.stdout)
		var f listFlags
		f.register(fs, false)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return list[domain.Card](ctx, e, e.app.CardsPage(f.size), &f, nil)
	}

	fs := newFlagSet("cards render", e.stdout)
	id := fs.Int64("id", 0, "saved card id")
	templateFile := fs.String("template", "", "HTML template file, for an unsaved card")
	data := fs.String("data", "", "JSON object filling the template placeholders")
	out := fs.String("o", "card.pdf", "output file")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	input := cards.RenderInput{CardID: *id}
	if *templateFile != "" {
		b, err := os.ReadFile(*templateFile)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		input.Template = string(b)
	}
	if input.Data, err = form.ParseJSONField("data", *data); err != nil {
		return err
	}

	blob, err := e.app.Cards.RenderPDF(ctx, input)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, blob.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(e.stdout, "Wrote %s (%d bytes).\n", *out, len(blob.Data))
	return nil
}

// ---------------------------------------------------------------------------
// students
// ---------------------------------------------------------------------------

func runStudents(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "lookup")
	if err != nil {
		return err
	}
	if sub == "list" {
		return runStudentsList(ctx, e, rest)
	}
	fs := newFlagSet("students lookup", e.stdout)
	card := fs.String("card", "", "student card number (required)")
	year := fs.Int64("year", 0, "academic year id")
	semester := fs.String("semester", "", "semester S1..S10")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	engine, err := form.NewEngine(form.StudentSections()...)
	if err != nil {
		return err
	}
	st := form.State{}
	q := enrollment.LookupQuery{
		CardNumber:     *card,
		AcademicYearID: *year,
		Semester:       domain.Semester(strings.ToUpper(*semester)),
	}
	res, err := e.app.StudentLookup().Search(ctx, st, q, false)
	if err != nil {
		return err
	}

	for _, s := range engine.Render(st) {
		fmt.Fprintf(e.stdout, "%s\n", s.Title)
		for _, row := range s.Rows {
			cells := make([]string, len(row))
			for i, f := range row {
				cells[i] = fmt.Sprintf("%s: %s", f.Label, f.Value)
			}
			fmt.Fprintf(e.stdout, "  %s\n", strings.Join(cells, "    "))
		}
	}

	if len(res.Registers) == 0 {
		fmt.Fprintln(e.stdout, "\nNo registered semesters.")
		return nil
	}
	fmt.Fprintln(e.stdout, "\nRegistrations")
	for _, r := range res.Registers {
		sems := make([]string, len(r.RegisterSemesters))
		for i, rs := range r.RegisterSemesters {
			sems[i] = string(rs.Semester)
		}
		fmt.Fprintf(e.stdout, "  year %d: %s\n", r.AcademicYearID, strings.Join(sems, ", "))
	}
	return nil
}

// ---------------------------------------------------------------------------
// notifications watch
// ---------------------------------------------------------------------------

func runNotifications(ctx context.Context, e *env, args []string) error {
	_, rest, err := subcommand(args, "watch")
	if err != nil {
		return err
	}
	fs := newFlagSet("notifications watch", e.stdout)
	limit := fs.Int("n", 0, "stop after n notifications (0 = until interrupted)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	events := make(chan notify.Event, 16)
	unsubscribe := e.app.Notify.Subscribe(func(ev notify.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	fmt.Fprintln(e.stdout, "Watching notifications, Ctrl-C to stop.")
	for seen := 0; *limit == 0 || seen < *limit; seen++ {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			title := ev.Title
			if title == "" {
				title = ev.Type
			}
			fmt.Fprintf(e.stdout, "[%s] %s: %s\n", ev.ReceivedAt.Format(time.TimeOnly), title, ev.Message)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// theme
// ---------------------------------------------------------------------------

func runTheme(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "get", "set")
	if err != nil {
		return err
	}
	if sub == "get" {
		theme, err := e.app.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, theme)
		return nil
	}

	if len(rest) != 1 {
		return fmt.Errorf("%w: theme set <%s|%s>", errUsage, app.ThemeLight, app.ThemeDark)
	}
	return e.app.SetTheme(ctx, rest[0])
}
