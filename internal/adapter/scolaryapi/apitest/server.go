// Package apitest provides an in-memory fake of the Scolary REST backend for tests.
// Collections support list (where/offset/limit), get, create, update and delete;
// any other route can be registered with Handle.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Prefix is the API base path served by the fake.
const Prefix = "/api/v1"

// LoginPath is exempt from RequireToken.
const LoginPath = "/login/access-token"

// Record is one captured request.
type Record struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

type collection struct {
	nextID int64
	rows   map[int64]map[string]any
	// bare lists respond with a plain JSON array instead of the envelope.
	bare bool
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	collections map[string]*collection
	handlers    map[string]http.HandlerFunc
	failures    map[string][]failure
	records     []Record
	token       string
}

// New starts a fake backend closed on test cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		collections: make(map[string]*collection),
		handlers:    make(map[string]http.HandlerFunc),
		failures:    make(map[string][]failure),
	}
	s.Server = httptest.NewServer(chain(recovery, requestID, s.auth)(http.HandlerFunc(s.serve)))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API base URL to hand to the client.
func (s *Server) BaseURL() string { return s.URL + Prefix }

// Collection registers a CRUD collection at path, e.g. "/mentions/".
func (s *Server) Collection(path string, rows ...map[string]any) {
	s.addCollection(path, false, rows)
}

// BareCollection is Collection answering lists with a bare JSON array.
func (s *Server) BareCollection(path string, rows ...map[string]any) {
	s.addCollection(path, true, rows)
}

func (s *Server) addCollection(path string, bare bool, rows []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &collection{rows: make(map[int64]map[string]any), bare: bare}
	for _, r := range rows {
		c.insert(r)
	}
	s.collections[normalize(path)] = c
}

// Handle registers a handler for an exact path under Prefix, any method.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[path] = h
}

// FailNext makes the next request to path answer status with body.
func (s *Server) FailNext(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], failure{status: status, body: body})
}

// Requests returns the captured requests.
func (s *Server) Requests() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Count returns the number of captured requests matching method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Rows returns a snapshot of a collection ordered by id.
func (s *Server) Rows(path string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[normalize(path)]
	if !ok {
		return nil
	}
	return c.sorted()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, Prefix)

	query := make(map[string]string)
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	s.mu.Lock()
	s.records = append(s.records, Record{Method: r.Method, Path: path, Query: query, Header: r.Header.Clone(), Body: body})
	if fs := s.failures[path]; len(fs) > 0 {
		f := fs[0]
		s.failures[path] = fs[1:]
		s.mu.Unlock()
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
		return
	}
	h, hasHandler := s.handlers[path]
	s.mu.Unlock()

	if hasHandler {
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		h(w, r)
		return
	}

	s.serveCollection(w, r, path, body, query)
}

func (s *Server) serveCollection(w http.ResponseWriter, r *http.Request, path string, body []byte, query map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[normalize(path)]; ok {
		switch r.Method {
		case http.MethodGet:
			rows, err := filterRows(c.sorted(), query["where"])
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
				return
			}
			total := len(rows)
			rows = paginate(rows, query["offset"], query["limit"])
			if c.bare {
				writeJSON(w, http.StatusOK, rows)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": rows, "count": total})
		case http.MethodPost:
			var row map[string]any
			if err := json.Unmarshal(body, &row); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
				return
			}
			writeJSON(w, http.StatusCreated, c.insert(row))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	dir, idPart := splitItem(path)
	c, ok := s.collections[dir]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	row, ok := c.rows[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("%s %d not found", strings.Trim(dir, "/"), id)})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, row)
	case http.MethodPut:
		var patch map[string]any
		if err := json.Unmarshal(body, &patch); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
			return
		}
		for k, v := range patch {
			row[k] = v
		}
		row["id"] = id
		writeJSON(w, http.StatusOK, row)
	case http.MethodDelete:
		delete(c.rows, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *collection) insert(row map[string]any) map[string]any {
	c.nextID++
	cp := make(map[string]any, len(row)+1)
	for k, v := range row {
		cp[k] = v
	}
	id := c.nextID
	var explicit int64
	switch v := row["id"].(type) {
	case float64:
		explicit = int64(v)
	case int:
		explicit = int64(v)
	case int64:
		explicit = v
	}
	if explicit > 0 {
		id = explicit
	}
	if id > c.nextID {
		c.nextID = id
	}
	cp["id"] = id
	c.rows[id] = cp
	return cp
}

func (c *collection) sorted() []map[string]any {
	ids := make([]int64, 0, len(c.rows))
	for id := range c.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.rows[id])
	}
	return out
}

type clause struct {
	Key      string `json:"key"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// filterRows applies "==" and "like" clauses on top-level fields. Dotted
// relation keys are accepted and ignored.
func filterRows(rows []map[string]any, where string) ([]map[string]any, error) {
	if where == "" {
		return rows, nil
	}
	var clauses []clause
	if err := json.Unmarshal([]byte(where), &clauses); err != nil {
		return nil, fmt.Errorf("invalid where: %w", err)
	}
	out := rows[:0:0]
	for _, row := range rows {
		if matches(row, clauses) {
			out = append(out, row)
		}
	}
	return out, nil
}

func matches(row map[string]any, clauses []clause) bool {
	for _, c := range clauses {
		if strings.Contains(c.Key, ".") {
			continue
		}
		got := fmt.Sprint(row[c.Key])
		want := fmt.Sprint(c.Value)
		switch c.Operator {
		case "==":
			if got != want {
				return false
			}
		case "in":
			values, _ := c.Value.([]any)
			found := false
			for _, v := range values {
				if fmt.Sprint(v) == got {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "like", "ilike":
			needle := strings.ToLower(strings.Trim(want, "%"))
			if !strings.Contains(strings.ToLower(got), needle) {
				return false
			}
		}
	}
	return true
}

func paginate(rows []map[string]any, offset, limit string) []map[string]any {
	off, _ := strconv.Atoi(offset)
	lim, err := strconv.Atoi(limit)
	if off > len(rows) {
		off = len(rows)
	}
	rows = rows[off:]
	if err == nil && lim > 0 && lim < len(rows) {
		rows = rows[:lim]
	}
	return rows
}

func normalize(path string) string {
	return "/" + strings.Trim(path, "/") + "/"
}

func splitItem(path string) (dir, id string) {
	trimmed := strings.Trim(path, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return "", trimmed
	}
	return "/" + trimmed[:i] + "/", trimmed[i+1:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
