package form

import (
	"errors"
	"fmt"
	"strings"
)

// EmptyValue is shown in read-only mode for blank values.
const EmptyValue = "-"

// Engine drives a sectioned form: which sections are in edit mode and how
// values change.
type Engine struct {
	sections []Section
	index    map[SectionKey]int
	editing  map[SectionKey]bool
	fields   map[FieldKey]Field

	// DisabledEditing freezes every section in read-only mode.
	DisabledEditing bool
}

// NewEngine checks the declaration: section keys present and unique, field
// keys known and used once, field types valid and select fields with options.
func NewEngine(sections ...Section) (*Engine, error) {
	e := &Engine{
		sections: sections,
		index:    make(map[SectionKey]int, len(sections)),
		editing:  make(map[SectionKey]bool, len(sections)),
		fields:   make(map[FieldKey]Field),
	}

	var errs []error
	for i, s := range sections {
		if s.Key == "" {
			errs = append(errs, fmt.Errorf("section %d: key is required", i))
			continue
		}
		if _, dup := e.index[s.Key]; dup {
			errs = append(errs, fmt.Errorf("section %q: duplicate key", s.Key))
			continue
		}
		e.index[s.Key] = i

		for _, f := range s.Fields {
			switch {
			case !f.Key.IsKnown():
				errs = append(errs, fmt.Errorf("section %q: unknown field key %q", s.Key, f.Key))
			case !f.Type.IsValid():
				errs = append(errs, fmt.Errorf("field %q: invalid type %q", f.Key, f.Type))
			case f.Type == TypeSelect && len(f.Options) == 0:
				errs = append(errs, fmt.Errorf("field %q: select without options", f.Key))
			default:
				if _, dup := e.fields[f.Key]; dup {
					errs = append(errs, fmt.Errorf("field %q: used more than once", f.Key))
					continue
				}
				e.fields[f.Key] = f
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("form.NewEngine: %w", errors.Join(errs...))
	}
	return e, nil
}

// Sections returns the declared sections.
func (e *Engine) Sections() []Section { return e.sections }

// Editing reports whether a section is in edit mode.
func (e *Engine) Editing(key SectionKey) bool {
	return !e.DisabledEditing && e.editing[key]
}

// Toggle flips a section between read-only and edit and returns the new
// mode. It does nothing when editing is disabled or the section is unknown.
func (e *Engine) Toggle(key SectionKey) bool {
	if e.DisabledEditing {
		return false
	}
	if _, ok := e.index[key]; !ok {
		return false
	}
	e.editing[key] = !e.editing[key]
	return e.editing[key]
}

// Change stores value under key. Phone numbers go through the Malagasy mask.
func (e *Engine) Change(st State, key FieldKey, value string) error {
	if _, ok := e.fields[key]; !ok {
		return fmt.Errorf("form: field %q is not part of this form", key)
	}
	if key == KeyPhoneNumber {
		value = FormatMadagascarPhone(value)
	}
	st[key] = value
	return nil
}

// ---------------------------------------------------------------------------
// View model
// ---------------------------------------------------------------------------

// FieldView is one rendered field.
type FieldView struct {
	Key         FieldKey
	Label       string
	Type        FieldType
	InputType   string
	Placeholder string
	Options     []Option
	// Value is the bound value in edit mode and the display text (or "-")
	// in read-only mode.
	Value     string
	FullWidth bool
}

// SectionView is one rendered section. Rows hold one or two fields.
type SectionView struct {
	Key     SectionKey
	Title   string
	Style   string
	Editing bool
	Rows    [][]FieldView
}

// Render builds the view model of every section from st.
func (e *Engine) Render(st State) []SectionView {
	out := make([]SectionView, 0, len(e.sections))
	for _, s := range e.sections {
		editing := e.Editing(s.Key)
		views := make([]FieldView, len(s.Fields))
		for i, f := range s.Fields {
			views[i] = fieldView(f, st[f.Key], editing)
		}
		out = append(out, SectionView{
			Key:     s.Key,
			Title:   s.Title,
			Style:   s.Style,
			Editing: editing,
			Rows:    layout(views),
		})
	}
	return out
}

func fieldView(f Field, value string, editing bool) FieldView {
	v := FieldView{
		Key:         f.Key,
		Label:       f.Label,
		Type:        f.Type,
		InputType:   f.InputType,
		Placeholder: f.Placeholder,
		Options:     f.Options,
		Value:       value,
	}
	if editing {
		return v
	}

	v.Value = displayValue(f, value)
	return v
}

func displayValue(f Field, value string) string {
	if strings.TrimSpace(value) == "" {
		return EmptyValue
	}
	for _, o := range f.Options {
		if o.Value == value && o.Label != "" {
			return o.Label
		}
	}
	return value
}

// layout puts each field on its own row, except for three-field sections
// where the first two share a row and the third spans it.
func layout(views []FieldView) [][]FieldView {
	if len(views) == 3 {
		views[2].FullWidth = true
		return [][]FieldView{{views[0], views[1]}, {views[2]}}
	}
	rows := make([][]FieldView, 0, len(views))
	for _, v := range views {
		v.FullWidth = true
		rows = append(rows, []FieldView{v})
	}
	return rows
}
