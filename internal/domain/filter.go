package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Clause is a single filter condition. Clauses of a query are combined with AND.
// Key is a column or a dotted relation path recognized by the backend.
type Clause struct {
	Key      string   `json:"key"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// ListQuery holds the parameters sent to a list endpoint.
type ListQuery struct {
	Where    []Clause
	Relation []string
	Offset   int
	Limit    int
	// Extra carries entity-specific parameters such as academic_year_id.
	Extra map[string]string
}

// PageQuery builds a ListQuery with offset and limit derived from a 1-based page.
func PageQuery(page, pageSize int) ListQuery {
	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return ListQuery{Offset: (page - 1) * pageSize, Limit: pageSize}
}

// Values encodes the query as URL parameters. Empty parts are omitted.
func (q ListQuery) Values() (url.Values, error) {
	v := url.Values{}
	if len(q.Where) > 0 {
		for _, c := range q.Where {
			if c.Key == "" {
				return nil, NewValidationError("where", "clause key is required")
			}
			if !c.Operator.IsValid() {
				return nil, NewValidationError("where", fmt.Sprintf("unsupported operator %q", c.Operator))
			}
		}
		raw, err := json.Marshal(q.Where)
		if err != nil {
			return nil, fmt.Errorf("encode where: %w", err)
		}
		v.Set("where", string(raw))
	}
	if len(q.Relation) > 0 {
		raw, err := json.Marshal(q.Relation)
		if err != nil {
			return nil, fmt.Errorf("encode relation: %w", err)
		}
		v.Set("relation", string(raw))
	}
	if q.Limit > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for k, val := range q.Extra {
		if strings.TrimSpace(val) != "" {
			v.Set(k, val)
		}
	}
	return v, nil
}

// CacheKey returns a stable string for the query, suitable as a cache key suffix.
func (q ListQuery) CacheKey() string {
	v, err := q.Values()
	if err != nil {
		return "invalid"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v.Get(k))
	}
	return b.String()
}

// ListResponse is the result of a list endpoint.
// Count, when present, is the total number of matching rows on the server.
type ListResponse[T any] struct {
	Data  []T  `json:"data"`
	Count *int `json:"count,omitempty"`
}

// UnmarshalJSON accepts the two shapes list endpoints return. The first JSON
// token decides: an array carries rows only, so its total stays unknown; an
// object is the {data, count} envelope.
func (r *ListResponse[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Data = []T{}
		r.Count = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode list array: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		r.Data = items
		r.Count = nil
		return nil
	case '{':
		var env struct {
			Data  []T  `json:"data"`
			Count *int `json:"count"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return fmt.Errorf("decode list envelope: %w", err)
		}
		if env.Data == nil {
			env.Data = []T{}
		}
		r.Data = env.Data
		r.Count = env.Count
		return nil
	default:
		return fmt.Errorf("decode list: unexpected token %q", trimmed[0])
	}
}

// Total returns the server-side total and whether it is known.
func (r *ListResponse[T]) Total() (int, bool) {
	if r == nil || r.Count == nil {
		return 0, false
	}
	return *r.Count, true
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// Len returns the number of rows on this page.
func (r *ListResponse[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Data)
}
