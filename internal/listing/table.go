package listing

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/heartmarshall/scolary/internal/domain"
)

// View selects how rows are laid out.
type View int

const (
	ViewRows View = iota
	ViewGrid
)

func (v View) String() string {
	if v == ViewGrid {
		return "grid"
	}
	return "rows"
}

// ParseView accepts "rows" or "grid".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rows", "table":
		return ViewRows, nil
	case "grid":
		return ViewGrid, nil
	}
	return ViewRows, fmt.Errorf("listing: unknown view %q", s)
}

// Column renders one cell of a row.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// State is everything a table shows at one moment.
type State[T any] struct {
	Data       []T
	IsLoading  bool
	TotalItems int
	TotalKnown bool
	HasMore    bool
	Err        error
	Page       int
	PageSize   int
	View       View
}

// StateOf builds the state of a finished fetch. A failed fetch keeps no rows.
func StateOf[T any](p Pager, resp *domain.ListResponse[T], err error) State[T] {
	p = p.normalized()
	st := State[T]{Page: p.Page, PageSize: p.PageSize, Err: err}
	if err != nil || resp == nil {
		return st
	}
	st.Data = resp.Data
	st.TotalItems, st.TotalKnown = resp.Total()
	st.HasMore = p.HasMore(resp)
	return st
}

// Table renders list state as aligned text.
type Table[T any] struct {
	Columns []Column[T]
	// EmptyText returns the message shown when there are no rows; lastErr is
	// the message of the failed fetch, or "".
	EmptyText func(lastErr string) string
	// GridItem renders one card of the grid view. Without it the grid view
	// falls back to rows.
	GridItem    func(T) string
	LoadingText string
}

// DefaultEmptyText is used when a table has no EmptyText.
func DefaultEmptyText(lastErr string) string {
	if lastErr != "" {
		return "Failed to load data: " + lastErr
	}
	return "No data found."
}

// Render writes st to w.
func (t Table[T]) Render(w io.Writer, st State[T]) error {
	if st.IsLoading {
		text := t.LoadingText
		if text == "" {
			text = "Loading..."
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}

	if len(st.Data) == 0 {
		empty := t.EmptyText
		if empty == nil {
			empty = DefaultEmptyText
		}
		_, err := fmt.Fprintln(w, empty(errorMessage(st.Err)))
		return err
	}

	var err error
	if st.View == ViewGrid && t.GridItem != nil {
		err = t.renderGrid(w, st.Data)
	} else {
		err = t.renderRows(w, st.Data)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, footer(st))
	return err
}

func (t Table[T]) renderRows(w io.Writer, rows []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	cells := make([]string, len(t.Columns))
	for _, row := range rows {
		for i, c := range t.Columns {
			cells[i] = cell(c.Value(row))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (t Table[T]) renderGrid(w io.Writer, rows []T) error {
	for i, row := range rows {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(t.GridItem(row), "\n")); err != nil {
			return err
		}
	}
	return nil
}

func footer[T any](st State[T]) string {
	page := st.Page
	if page < 1 {
		page = 1
	}
	if st.TotalKnown {
		size := st.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		pages := (st.TotalItems + size - 1) / size
		if pages < 1 {
			pages = 1
		}
		return fmt.Sprintf("Page %d of %d (%d items)", page, pages, st.TotalItems)
	}
	if st.HasMore {
		return fmt.Sprintf("Page %d (more available)", page)
	}
	return fmt.Sprintf("Page %d", page)
}

// cell keeps tabs and newlines from breaking the column layout.
func cell(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		return ve.Errors[0].Message
	}
	return err.Error()
}
