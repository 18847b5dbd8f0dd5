package content

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi/apitest"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
)

func newTestService(t *testing.T) (*apitest.Server, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := apitest.New(t)
	srv.Collection("/cms_pages/",
		map[string]any{"id": 1, "slug": "accueil", "title": "Accueil", "content": "Bienvenue"},
		map[string]any{"id": 2, "slug": "contact", "title": "Contact", "content": "..."},
	)
	srv.Collection("/university/", map[string]any{"id": 1, "name": "Université de Fianarantsoa", "acronym": "UF"})
	client, err := scolaryapi.New(srv.BaseURL(), nil, logger)
	require.NoError(t, err)
	return srv, NewService(logger, client, querycache.New(logger, 0))
}

func TestService_PageBySlug(t *testing.T) {
	t.Parallel()
	_, svc := newTestService(t)
	ctx := context.Background()

	page, err := svc.PageBySlug(ctx, " contact ")
	require.NoError(t, err)
	assert.Equal(t, "Contact", page.Title)

	_, err = svc.PageBySlug(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PageBySlug(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UploadLogo(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)
	ctx := context.Background()

	var gotName, gotData string
	srv.Handle("/university/1/logo", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotData = hdr.Filename, string(data)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Université de Fianarantsoa", "logo": "/static/logo.png"})
	})

	// Prime the cache so the upload has something to invalidate.
	_, err := svc.University.Get(ctx, 1)
	require.NoError(t, err)

	u, err := svc.UploadLogo(ctx, 1, "/tmp/logo.png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/static/logo.png", u.Logo)
	assert.Equal(t, "logo.png", gotName)
	assert.Equal(t, "PNG", gotData)

	_, err = svc.University.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/university/1"))
}

func TestService_UploadLogo_RejectsType(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)

	_, err := svc.UploadLogo(context.Background(), 1, "logo.exe", strings.NewReader("x"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, srv.Requests())
}
