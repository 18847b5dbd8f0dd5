package scolaryapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/pkg/ctxutil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticTokens struct {
	token string
}

func (s staticTokens) Token(context.Context) (string, bool) {
	return s.token, s.token != ""
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens TokenSource) *Client {
	t.Helper()
	c, err := New(srv.URL+"/api/v1/", tokens, newTestLogger(), WithRetryDelay(time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := New("/api", nil, newTestLogger())
	require.Error(t, err)
}

func TestClient_Do_JoinsPathAndQuery(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[],"count":0}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	var out map[string]any
	err := c.Do(context.Background(), "/mentions/", Request{
		Query: url.Values{"limit": {"10"}, "where": {""}, "offset": {"0"}},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/mentions/", gotPath)
	assert.Equal(t, "10", gotQuery.Get("limit"))
	assert.Equal(t, "0", gotQuery.Get("offset"))
	assert.False(t, gotQuery.Has("where"), "empty query params must be omitted")
}

func TestClient_Do_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "abc"})
	require.NoError(t, c.Do(context.Background(), "/users/me", Request{}, nil))

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_Do_PropagatesRequestIDFromContext(t *testing.T) {
	t.Parallel()

	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	require.NoError(t, c.Do(ctx, "/ping", Request{}, nil))
	assert.Equal(t, "req-42", gotRequestID)
}

func TestClient_Do_NoTokenNoHeader(t *testing.T) {
	t.Parallel()

	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	require.NoError(t, c.Do(context.Background(), "/ping", Request{}, nil))
	assert.False(t, hasAuth)
}

func TestClient_Do_EncodesJSONBody(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"name":"GL"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	var out domain.Mention
	err := c.Do(context.Background(), "/mentions/", Request{
		Method: http.MethodPost,
		JSON:   domain.MentionPayload{Name: "GL", Slug: "gl", Abbreviation: "GL"},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "GL", gotBody["name"])
	assert.Equal(t, int64(7), out.ID)
}

func TestClient_Do_NoContentLeavesOutUntouched(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	out := &domain.Mention{ID: 99}
	require.NoError(t, c.Do(context.Background(), "/mentions/99", Request{Method: http.MethodDelete}, out))
	assert.Equal(t, int64(99), out.ID)
}

func TestClient_Do_ErrorMessageFromBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Mention already exists"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	err := c.Do(context.Background(), "/mentions/", Request{Method: http.MethodPost, JSON: map[string]string{}}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Mention already exists", err.Error())
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestClient_Do_ErrorDetailFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Student not found"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	err := c.Do(context.Background(), "/students/x", Request{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Student not found", err.Error())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_Do_ErrorGenericFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<html>nope</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	err := c.Do(context.Background(), "/users/", Request{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Request failed with status 403", err.Error())
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestClient_Do_ValidationDetailListUsesGenericMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","name"],"msg":"field required"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	err := c.Do(context.Background(), "/mentions/", Request{Method: http.MethodPost, JSON: struct{}{}}, nil)
	require.Error(t, err)
	assert.Equal(t, "Request failed with status 422", err.Error())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestClient_Do_GETRetriesOnceOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	var out domain.ListResponse[domain.Mention]
	require.NoError(t, c.Do(context.Background(), "/mentions/", Request{}, &out))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Do_POSTNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	err := c.Do(context.Background(), "/mentions/", Request{Method: http.MethodPost, JSON: map[string]string{}}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Request failed with status 500", err.Error())
}

func TestClient_DoBlob(t *testing.T) {
	t.Parallel()

	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	blob, err := c.DoBlob(context.Background(), "/cards/render-pdf/", Request{Method: http.MethodPost, JSON: map[string]any{"id": 1}})
	require.NoError(t, err)
	require.NotNil(t, blob)

	assert.Contains(t, gotAccept, "application/pdf")
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, "%PDF-1.4", string(blob.Data))
}

func TestClient_DoBlob_Error(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"template invalid"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	_, err := c.DoBlob(context.Background(), "/cards/render-pdf/", Request{Method: http.MethodPost})
	require.EqualError(t, err, "template invalid")
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	var gotType, gotUser, gotPass string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/login/access-token", r.URL.Path)
		gotType = r.Header.Get("Content-Type")
		_, hasAuth = r.Header["Authorization"]
		assert.NoError(t, r.ParseForm())
		gotUser = r.PostForm.Get("username")
		gotPass = r.PostForm.Get("password")
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "stale"})
	tok, err := c.Login(context.Background(), "admin@univ.mg", "secret")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "admin@univ.mg", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.False(t, hasAuth, "login must not send a bearer token")
	assert.Equal(t, "tok", tok.AccessToken)
}

func TestMultipartBody(t *testing.T) {
	t.Parallel()

	body, contentType, err := MultipartBody(
		map[string]string{"name": "logo"},
		FilePart{Field: "file", FileName: "logo.png", Content: strings.NewReader("PNGDATA")},
	)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(body, params["boundary"])
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"logo"}, form.Value["name"])
	require.Len(t, form.File["file"], 1)
	assert.Equal(t, "logo.png", form.File["file"][0].Filename)
}
