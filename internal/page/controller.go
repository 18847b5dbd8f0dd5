// Package page composes the admin screens: persisted filters, a paginated
// table, create/edit dialogs backed by form mappers, confirmed deletes and a
// feedback banner.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/filter"
	"github.com/heartmarshall/scolary/internal/form"
	"github.com/heartmarshall/scolary/internal/listing"
	"github.com/heartmarshall/scolary/pkg/ctxutil"
)

// resourceService is the CRUD surface a page drives.
type resourceService[T, P any] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.ListResponse[T], error)
	Create(ctx context.Context, payload P) (*T, error)
	Update(ctx context.Context, id int64, payload P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Config declares one screen.
type Config[T, V, P any] struct {
	// Title is the singular entity label used in banners, e.g. "Mention".
	Title    string
	Resource resourceService[T, P]
	Mapper   form.Mapper[T, V, P]
	Table    listing.Table[T]
	Filter   filter.Spec
	// FilterKey persists the selection under this key when Store is set.
	FilterKey string
	Store     *filter.Store
	PageSize  int
	// Label names a record in the delete prompt.
	Label func(T) string
	// Options, when set, is loaded by Bootstrap.
	Options *OptionSources
}

// Controller holds the UI state of one screen. It is safe for concurrent use.
type Controller[T, V, P any] struct {
	cfg Config[T, V, P]
	log *slog.Logger

	mu        sync.Mutex
	selection filter.Selection
	pager     listing.Pager
	state     listing.State[T]
	banner    *Banner
}

// New creates a controller on page 1 with an empty selection.
func New[T, V, P any](logger *slog.Logger, cfg Config[T, V, P]) *Controller[T, V, P] {
	return &Controller[T, V, P]{
		cfg:   cfg,
		log:   logger.With("service", "page", "page", cfg.Title),
		pager: listing.NewPager(cfg.PageSize),
	}
}

// Restore loads the persisted selection.
func (c *Controller[T, V, P]) Restore(ctx context.Context) filter.Selection {
	if c.cfg.Store == nil || c.cfg.FilterKey == "" {
		return c.Selection()
	}
	sel := c.cfg.Store.Load(ctx, c.cfg.FilterKey)

	c.mu.Lock()
	c.selection = sel
	c.mu.Unlock()
	return sel
}

func (c *Controller[T, V, P]) Selection() filter.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// SetSelection replaces the filters, persists them and returns to page 1.
func (c *Controller[T, V, P]) SetSelection(ctx context.Context, sel filter.Selection) error {
	c.mu.Lock()
	c.selection = sel
	c.pager = c.pager.Goto(1)
	c.mu.Unlock()

	if c.cfg.Store == nil || c.cfg.FilterKey == "" {
		return nil
	}
	if err := c.cfg.Store.Save(ctx, c.cfg.FilterKey, sel); err != nil {
		c.log.WarnContext(ctx, "persist filters", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Pager returns the current pagination.
func (c *Controller[T, V, P]) Pager() listing.Pager {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager
}

// State returns the last table state.
func (c *Controller[T, V, P]) State() listing.State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

// Refresh fetches the current page. A failed fetch does not return an
// error: it empties the table and its message becomes the empty text.
func (c *Controller[T, V, P]) Refresh(ctx context.Context) listing.State[T] {
	ctx = ctxutil.WithPage(ctx, c.cfg.Title)
	c.mu.Lock()
	pager, sel := c.pager, c.selection
	c.state.IsLoading = true
	c.mu.Unlock()

	q := c.cfg.Filter.ToListQuery(sel, pager.Page, pager.Limit())
	resp, err := c.cfg.Resource.List(ctx, q)
	if err != nil {
		c.log.WarnContext(ctx, "list failed", slog.String("error", err.Error()))
	}

	var st listing.State[T]
	if err != nil {
		st = listing.StateOf[T](pager, nil, err)
	} else {
		st = listing.StateOf(pager, &resp, nil)
	}

	c.mu.Lock()
	st.View = c.state.View
	c.state = st
	c.mu.Unlock()
	return st
}

// SetView switches between rows and grid.
func (c *Controller[T, V, P]) SetView(v listing.View) {
	c.mu.Lock()
	c.state.View = v
	c.mu.Unlock()
}

// NextPage moves forward if the last fetch says more rows exist, then refreshes.
func (c *Controller[T, V, P]) NextPage(ctx context.Context) listing.State[T] {
	c.mu.Lock()
	if c.state.HasMore {
		c.pager = c.pager.Goto(c.pager.Page + 1)
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// PrevPage moves back, stopping at page 1, then refreshes.
func (c *Controller[T, V, P]) PrevPage(ctx context.Context) listing.State[T] {
	c.mu.Lock()
	c.pager = c.pager.Prev()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// GotoPage jumps to page, then refreshes.
func (c *Controller[T, V, P]) GotoPage(ctx context.Context, page int) listing.State[T] {
	c.mu.Lock()
	c.pager = c.pager.Goto(page)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPageSize changes the page size, returns to page 1 and refreshes.
func (c *Controller[T, V, P]) SetPageSize(ctx context.Context, size int) listing.State[T] {
	c.mu.Lock()
	c.pager = c.pager.SetPageSize(size)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Render writes the banner, if any, and the table.
func (c *Controller[T, V, P]) Render(w io.Writer) error {
	c.mu.Lock()
	st, banner := c.state, c.banner
	c.mu.Unlock()

	if banner != nil {
		if _, err := fmt.Fprintln(w, banner.String()); err != nil {
			return err
		}
	}
	return c.cfg.Table.Render(w, st)
}

// ---------------------------------------------------------------------------
// Dialogs and mutations
// ---------------------------------------------------------------------------

// OpenCreate returns the values of an empty create dialog.
func (c *Controller[T, V, P]) OpenCreate() V {
	return c.cfg.Mapper.ToFormValues(nil)
}

// OpenEdit returns the dialog values of record.
func (c *Controller[T, V, P]) OpenEdit(record *T) V {
	return c.cfg.Mapper.ToFormValues(record)
}

// Create submits a create dialog. Client-side validation errors are returned
// for inline display and leave the banner alone; server failures set an
// error banner with the server message.
func (c *Controller[T, V, P]) Create(ctx context.Context, values V) (*T, error) {
	ctx = ctxutil.WithPage(ctx, c.cfg.Title)
	payload, err := c.cfg.Mapper.ToPayload(values)
	if err != nil {
		return nil, err
	}

	out, err := c.cfg.Resource.Create(ctx, payload)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.succeed(c.cfg.Title + " created.")
	c.Refresh(ctx)
	return out, nil
}

// Update submits an edit dialog for record id.
func (c *Controller[T, V, P]) Update(ctx context.Context, id int64, values V) (*T, error) {
	ctx = ctxutil.WithPage(ctx, c.cfg.Title)
	payload, err := c.cfg.Mapper.ToPayload(values)
	if err != nil {
		return nil, err
	}

	out, err := c.cfg.Resource.Update(ctx, id, payload)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.succeed(c.cfg.Title + " updated.")
	c.Refresh(ctx)
	return out, nil
}

// Delete asks confirm first and calls the backend only on an explicit yes.
// It reports whether the record was deleted.
func (c *Controller[T, V, P]) Delete(ctx context.Context, id int64, record T, confirm Confirmer) (bool, error) {
	ctx = ctxutil.WithPage(ctx, c.cfg.Title)
	label := fmt.Sprintf("#%d", id)
	if c.cfg.Label != nil {
		label = c.cfg.Label(record)
	}

	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete %s %s? This cannot be undone.", c.cfg.Title, label))
	if err != nil {
		return false, fmt.Errorf("page.Delete: confirm: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := c.cfg.Resource.Delete(ctx, id); err != nil {
		c.fail(err)
		return false, err
	}
	c.succeed(c.cfg.Title + " deleted.")
	c.Refresh(ctx)
	return true, nil
}

// Banner returns the current feedback banner.
func (c *Controller[T, V, P]) Banner() (Banner, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner == nil {
		return Banner{}, false
	}
	return *c.banner, true
}

// DismissBanner hides the banner.
func (c *Controller[T, V, P]) DismissBanner() {
	c.mu.Lock()
	c.banner = nil
	c.mu.Unlock()
}

func (c *Controller[T, V, P]) succeed(text string) {
	c.mu.Lock()
	c.banner = &Banner{Type: BannerSuccess, Text: text}
	c.mu.Unlock()
}

func (c *Controller[T, V, P]) fail(err error) {
	c.mu.Lock()
	c.banner = &Banner{Type: BannerError, Text: errorText(err)}
	c.mu.Unlock()
}

// Bootstrap loads the filter options of the screen.
func (c *Controller[T, V, P]) Bootstrap(ctx context.Context) (Options, error) {
	if c.cfg.Options == nil {
		return Options{}, nil
	}
	return Bootstrap(ctx, *c.cfg.Options)
}

func errorText(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	return err.Error()
}
