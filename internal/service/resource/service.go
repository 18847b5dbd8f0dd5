// Package resource implements the generic list/get/create/update/delete flow
// shared by every entity endpoint of the backend.
package resource

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
)

// api defines the HTTP client interface needed by resource services.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
}

// Definition describes one entity endpoint.
type Definition struct {
	// Name is the cache entity key, e.g. "mentions".
	Name string
	// Path is the collection path, e.g. "/mentions/".
	Path string
	// Invalidates lists other entity keys dropped on every mutation.
	Invalidates []string
}

// ItemPath returns the path of a single record.
func (d Definition) ItemPath(id int64) string {
	return strings.TrimRight(d.Path, "/") + "/" + strconv.FormatInt(id, 10)
}

// Service performs CRUD on one entity. T is the record type and P the
// create/update payload.
type Service[T, P any] struct {
	log   *slog.Logger
	api   api
	cache *querycache.Cache
	def   Definition
}

// New creates a resource service for def.
func New[T, P any](logger *slog.Logger, client api, cache *querycache.Cache, def Definition) *Service[T, P] {
	return &Service[T, P]{
		log:   logger.With("service", def.Name),
		api:   client,
		cache: cache,
		def:   def,
	}
}

// Definition returns the endpoint definition.
func (s *Service[T, P]) Definition() Definition { return s.def }

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Fetch requests a page of records, bypassing the cache.
func (s *Service[T, P]) Fetch(ctx context.Context, q domain.ListQuery) (domain.ListResponse[T], error) {
	params, err := q.Values()
	if err != nil {
		return domain.ListResponse[T]{}, err
	}

	var resp domain.ListResponse[T]
	if err := s.api.Do(ctx, s.def.Path, scolaryapi.Request{Query: params}, &resp); err != nil {
		return domain.ListResponse[T]{}, err
	}
	if resp.Data == nil {
		resp.Data = []T{}
	}
	return resp, nil
}

// List is Fetch through the query cache.
func (s *Service[T, P]) List(ctx context.Context, q domain.ListQuery) (domain.ListResponse[T], error) {
	if _, err := q.Values(); err != nil {
		return domain.ListResponse[T]{}, err
	}
	resp, err := querycache.Fetch(ctx, s.cache, s.def.Name, "list:"+q.CacheKey(),
		func(ctx context.Context) (domain.ListResponse[T], error) {
			return s.Fetch(ctx, q)
		})
	if err != nil {
		return domain.ListResponse[T]{}, err
	}
	resp.Data = slices.Clone(resp.Data)
	return resp, nil
}

// Get returns one record by id, cached.
func (s *Service[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	v, err := querycache.Fetch(ctx, s.cache, s.def.Name, "id:"+strconv.FormatInt(id, 10),
		func(ctx context.Context) (T, error) {
			var out T
			err := s.api.Do(ctx, s.def.ItemPath(id), scolaryapi.Request{}, &out)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create posts payload to the collection path.
func (s *Service[T, P]) Create(ctx context.Context, payload P) (*T, error) {
	var out T
	if err := s.api.Do(ctx, s.def.Path, scolaryapi.Request{Method: http.MethodPost, JSON: payload}, &out); err != nil {
		s.log.WarnContext(ctx, "create failed", slog.String("error", err.Error()))
		return nil, err
	}
	s.invalidate(ctx, "create")
	return &out, nil
}

// Update puts payload to the record path.
func (s *Service[T, P]) Update(ctx context.Context, id int64, payload P) (*T, error) {
	var out T
	if err := s.api.Do(ctx, s.def.ItemPath(id), scolaryapi.Request{Method: http.MethodPut, JSON: payload}, &out); err != nil {
		s.log.WarnContext(ctx, "update failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	s.invalidate(ctx, "update")
	return &out, nil
}

// Delete removes the record.
func (s *Service[T, P]) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, s.def.ItemPath(id), scolaryapi.Request{Method: http.MethodDelete}, nil); err != nil {
		s.log.WarnContext(ctx, "delete failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	s.invalidate(ctx, "delete")
	return nil
}

// Invalidate drops the cached reads of this entity and its dependents.
func (s *Service[T, P]) Invalidate() {
	s.cache.Invalidate(append([]string{s.def.Name}, s.def.Invalidates...)...)
}

func (s *Service[T, P]) invalidate(ctx context.Context, op string) {
	s.Invalidate()
	s.log.DebugContext(ctx, "mutation applied", slog.String("op", op))
}
