package events

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	// UpgradePromptShow asks the client to display an upgrade prompt.
	UpgradePromptShow = "upgrade-prompt:show"
)

// Event is the envelope published for every emitted event.
type Event struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Payload   interface{} `json:"payload"`
	EmittedAt time.Time   `json:"emitted_at"`
}

// NewEvent stamps a payload with a fresh id and the current time.
func NewEvent(name string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}

// Bus delivers events fire-and-forget. Implementations must not block the
// caller on slow subscribers and never report delivery failures.
type Bus interface {
	Emit(ctx context.Context, name string, payload interface{})
}

// BusFunc adapts a function to the Bus interface.
type BusFunc func(ctx context.Context, name string, payload interface{})

// Emit calls f.
func (f BusFunc) Emit(ctx context.Context, name string, payload interface{}) {
	f(ctx, name, payload)
}

// MultiBus emits every event to each of its buses in order.
type MultiBus []Bus

// Emit implements Bus.
func (m MultiBus) Emit(ctx context.Context, name string, payload interface{}) {
	for _, b := range m {
		if b != nil {
			b.Emit(ctx, name, payload)
		}
	}
}

// LogBus only logs events. It is the fallback when no broker is reachable.
type LogBus struct{}

// Emit implements Bus.
func (LogBus) Emit(_ context.Context, name string, payload interface{}) {
	log.Debugf("[Events] %s: %+v", name, payload)
}

// Nop discards every event.
var Nop Bus = BusFunc(func(context.Context, string, interface{}) {})
