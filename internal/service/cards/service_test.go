package cards

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
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
	srv.Collection("/cards/")
	client, err := scolaryapi.New(srv.BaseURL(), nil, logger)
	require.NoError(t, err)
	return srv, NewService(logger, client, querycache.New(logger, 0))
}

func TestService_RenderPDF(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)

	var got RenderInput
	srv.Handle(renderPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	})

	blob, err := svc.RenderPDF(context.Background(), RenderInput{
		CardID: 3,
		Data:   json.RawMessage(`{"first_name":"Rija"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, int64(3), got.CardID)
	assert.JSONEq(t, `{"first_name":"Rija"}`, string(got.Data))
}

func TestService_RenderPDF_Validation(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)

	_, err := svc.RenderPDF(context.Background(), RenderInput{})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Field("template"))

	_, err = svc.RenderPDF(context.Background(), RenderInput{Template: "<p/>", Data: json.RawMessage(`{bad`)})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "invalid JSON", ve.Field("data"))
	assert.Empty(t, srv.Requests())
}

func TestService_RenderPDF_EmptyDocument(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)
	srv.Handle(renderPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})

	_, err := svc.RenderPDF(context.Background(), RenderInput{CardID: 1})
	require.Error(t, err)
}

func TestService_CardCRUD(t *testing.T) {
	t.Parallel()
	_, svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CardPayload{Name: "Badge", Template: "<div>{{name}}</div>", Width: 85.6, Height: 54})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.PageQuery(1, 10))
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, created.ID, resp.Data[0].ID)
	assert.Equal(t, 85.6, resp.Data[0].Width)
}
