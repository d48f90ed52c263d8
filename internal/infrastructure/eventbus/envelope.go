package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
)

var ErrUnknownEvent = errors.New("unknown event")

// Envelope is the wire form of an event on the broker.
type Envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func Wrap(e event.Event) (Envelope, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Name: e.Name(), Payload: b}, nil
}

// Decode turns a broker message body back into a domain event.
func Decode(body []byte) (event.Event, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("eventbus.Decode: %w", err)
	}
	switch env.Name {
	case event.WorkEntryUpdatedName:
		var e event.WorkEntryUpdated
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("eventbus.Decode: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("eventbus.Decode: %w: %q", ErrUnknownEvent, env.Name)
	}
}
