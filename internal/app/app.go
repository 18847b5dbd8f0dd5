package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scolary/internal/adapter/localstore"
	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/adapter/wsnotify"
	"github.com/heartmarshall/scolary/internal/auth"
	"github.com/heartmarshall/scolary/internal/config"
	"github.com/heartmarshall/scolary/internal/filter"
	"github.com/heartmarshall/scolary/internal/form"
	"github.com/heartmarshall/scolary/internal/notify"
	"github.com/heartmarshall/scolary/internal/page"
	"github.com/heartmarshall/scolary/internal/service/academics"
	authsvc "github.com/heartmarshall/scolary/internal/service/auth"
	"github.com/heartmarshall/scolary/internal/service/cards"
	"github.com/heartmarshall/scolary/internal/service/content"
	"github.com/heartmarshall/scolary/internal/service/enrollment"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/user"
)

// App holds the wired client stack: storage, session, API client, services
// and the notification manager.
type App struct {
	Config *config.Config
	Log    *slog.Logger

	Store   *localstore.Store
	Session *auth.Session
	Client  *scolaryapi.Client
	Cache   *querycache.Cache
	Filters *filter.Store
	Notify  *notify.Manager

	Auth       *authsvc.Service
	Academics  *academics.Service
	Cards      *cards.Service
	Content    *content.Service
	Users      *user.Service
	Enrollment *enrollment.Service
}

// New opens the local store and builds every service over it.
// The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := localstore.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	// The session store lives for the process, like a browser tab.
	session := auth.NewSession(localstore.NewMemory(), store)

	client, err := scolaryapi.New(cfg.API.BaseURL, session, logger,
		scolaryapi.WithTimeout(cfg.API.Timeout))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("app.New: %w", err)
	}

	cache := querycache.New(logger, 0)
	dialer := wsnotify.NewDialer(logger, cfg.API.BaseURL, cfg.API.WSURL, session)

	a := &App{
		Config:  cfg,
		Log:     logger,
		Store:   store,
		Session: session,
		Client:  client,
		Cache:   cache,
		Filters: filter.NewStore(logger, store),
		Notify:  notify.NewManager(logger, dialer, notify.WithReconnectDelay(cfg.Notify.ReconnectDelay)),

		Auth:       authsvc.NewService(logger, client, session),
		Academics:  academics.NewService(logger, client, cache),
		Cards:      cards.NewService(logger, client, cache),
		Content:    content.NewService(logger, client, cache),
		Users:      user.NewService(logger, client, cache),
		Enrollment: enrollment.NewService(logger, client, cache),
	}

	logger.Debug("app ready",
		slog.String("version", BuildVersion()),
		slog.String("api", cfg.API.BaseURL),
		slog.String("storage", cfg.Storage.Path),
	)
	return a, nil
}

// Close stops notifications and closes the local store.
func (a *App) Close() error {
	a.Notify.Close()
	a.Cache.Reset()
	return a.Store.Close()
}

// PageSize clamps n to the configured bounds; n <= 0 selects the default.
func (a *App) PageSize(n int) int {
	p := a.Config.Pagination
	switch {
	case n <= 0:
		return p.DefaultPageSize
	case n > p.MaxPageSize:
		return p.MaxPageSize
	default:
		return n
	}
}

// ---------------------------------------------------------------------------
// Screens
// ---------------------------------------------------------------------------

func (a *App) MentionsPage(pageSize int) *page.MentionsPage {
	return page.NewMentionsPage(a.Log, a.Academics, a.PageSize(pageSize))
}

func (a *App) JourneysPage(pageSize int) *page.JourneysPage {
	return page.NewJourneysPage(a.Log, a.Academics, a.PageSize(pageSize))
}

func (a *App) TeachingUnitsPage(pageSize int) *page.TeachingUnitsPage {
	return page.NewTeachingUnitsPage(a.Log, a.Academics, a.Filters, a.PageSize(pageSize))
}

func (a *App) ConstituentElementsPage(pageSize int) *page.ConstituentElementsPage {
	return page.NewConstituentElementsPage(a.Log, a.Academics, a.Filters, a.PageSize(pageSize))
}

func (a *App) GroupsPage(pageSize int) *page.GroupsPage {
	return page.NewGroupsPage(a.Log, a.Academics, a.Filters, a.PageSize(pageSize))
}

func (a *App) OfferingsPage(pageSize int) *page.OfferingsPage {
	return page.NewOfferingsPage(a.Log, a.Academics, a.Filters, a.PageSize(pageSize))
}

func (a *App) StudentsPage(pageSize int) *page.StudentsPage {
	return page.NewStudentsPage(a.Log, a.Enrollment, a.PageSize(pageSize))
}

func (a *App) CardsPage(pageSize int) *page.CardsPage {
	return page.NewCardsPage(a.Log, a.Cards, a.PageSize(pageSize))
}

// StudentLookup creates the reinscription lookup over the enrollment service.
func (a *App) StudentLookup() *form.StudentLookup {
	return form.NewStudentLookup(a.Enrollment)
}

// Cascade creates the mention → journey → semester filter over academics.
func (a *App) Cascade() *filter.Cascade {
	return filter.NewCascade(a.Academics)
}

// Loaders creates a per-screen batch loader set.
func (a *App) Loaders() *academics.Loaders {
	return academics.NewLoaders(a.Academics)
}
