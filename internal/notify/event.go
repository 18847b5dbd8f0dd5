// Package notify fans the backend notification stream out to subscribers
// over one shared, reference-counted connection.
package notify

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scolary/internal/domain"
)

// TypeMessage is the type of events built from non-JSON payloads.
const TypeMessage = "message"

// Event is one received notification.
type Event = domain.Notification

// ParseEvent decodes a socket message. Payloads that are not a JSON object
// become a plain message event carrying the raw text. Events without an id
// get a random one.
func ParseEvent(raw []byte, receivedAt time.Time) Event {
	ev := Event{ReceivedAt: receivedAt}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &ev) != nil {
		ev = Event{Type: TypeMessage, Message: string(raw), ReceivedAt: receivedAt}
	}
	ev.ReceivedAt = receivedAt

	if strings.TrimSpace(ev.Type) == "" {
		ev.Type = TypeMessage
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	return ev
}
