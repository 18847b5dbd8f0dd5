package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONFieldError is the inline error of a JSON text area.
type JSONFieldError struct {
	Field   string
	Message string
	Offset  int64
}

func (e *JSONFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *JSONFieldError) Unwrap() error { return errShapeJSON }

var errShapeJSON = errors.New("invalid JSON")

// ParseJSONField checks the text of a JSON text area. Blank text is nil.
// Only objects are accepted.
func ParseJSONField(field, text string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		fe := &JSONFieldError{Field: field, Message: "Invalid JSON"}
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			fe.Offset = syn.Offset
			fe.Message = fmt.Sprintf("Invalid JSON at character %d", syn.Offset)
		}
		return nil, fe
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, &JSONFieldError{Field: field, Message: "JSON must be an object"}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, &JSONFieldError{Field: field, Message: "Invalid JSON"}
	}
	return json.RawMessage(buf.Bytes()), nil
}

// FormatJSONField renders stored JSON for a text area, indented.
func FormatJSONField(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
