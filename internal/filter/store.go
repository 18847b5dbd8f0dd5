package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
)

// Per-screen storage keys.
const (
	ConstituentElementsKey = "constituent-elements.filters"
	TeachingUnitsKey       = "teaching-units.filters"
	GroupsKey              = "groups.filters"
	OfferingsKey           = "offering-management.filters"
)

// KV is the local storage the selections are persisted in.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

var errShape = errors.New("filter: unexpected stored shape")

// Store persists selections per screen.
type Store struct {
	kv  KV
	log *slog.Logger
}

// NewStore creates a Store over kv.
func NewStore(logger *slog.Logger, kv KV) *Store {
	return &Store{kv: kv, log: logger.With("service", "filter")}
}

// Load returns the stored selection of key. Missing, unreadable or
// ill-shaped values yield an empty selection.
func (s *Store) Load(ctx context.Context, key string) Selection {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "read stored filters", "key", key, "error", err)
		return Selection{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Selection{}
	}

	sel, err := ParseSelection([]byte(raw))
	if err != nil {
		s.log.WarnContext(ctx, "discard stored filters", "key", key, "error", err)
		return Selection{}
	}
	return sel
}

// Save stores sel under key.
func (s *Store) Save(ctx context.Context, key string, sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("filter.Save: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("filter.Save: %w", err)
	}
	return nil
}

// ParseSelection decodes a stored selection after checking its shape: a JSON
// object whose known fields carry the expected types. Ids may be numbers or
// numeric strings. Unknown fields are ignored.
func ParseSelection(raw []byte) (Selection, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Selection{}, fmt.Errorf("%w: not an object", errShape)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Selection{}, fmt.Errorf("%w: %v", errShape, err)
	}

	var (
		sel Selection
		err error
	)
	if sel.MentionID, err = parseID(fields, "mention_id"); err != nil {
		return Selection{}, err
	}
	if sel.JourneyID, err = parseID(fields, "journey_id"); err != nil {
		return Selection{}, err
	}
	if sel.AcademicYearID, err = parseID(fields, "academic_year_id"); err != nil {
		return Selection{}, err
	}

	semester, err := parseString(fields, "semester")
	if err != nil {
		return Selection{}, err
	}
	if semester != "" && !domain.Semester(semester).IsValid() {
		return Selection{}, fmt.Errorf("%w: semester %q out of range", errShape, semester)
	}
	sel.Semester = domain.Semester(semester)

	if sel.Search, err = parseString(fields, "search"); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

func parseID(fields map[string]json.RawMessage, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return 0, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errShape, name, err)
	}
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, nil
		}
		n = json.Number(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("%w: %s must be a number", errShape, name)
	}

	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errShape, name)
	}
	return id, nil
}

func parseString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", errShape, name)
	}
	return s, nil
}
