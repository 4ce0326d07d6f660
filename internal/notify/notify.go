// Package notify delivers order and table events to whoever listens: the
// kitchen board over websocket and downstream mailers over RabbitMQ.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tavola-pos/api/internal/model"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDiscounted    = "order.discounted"
	EventOrderArchived      = "order.archived"
	EventTableUpdated       = "table.updated"
)

// Event is the payload sent for every state change. Version is the state
// version right after the change; a client holding a higher version can
// drop the event.
type Event struct {
	Type         string          `json:"type"`
	Order        *model.Order    `json:"order,omitempty"`
	Table        *model.Table    `json:"table,omitempty"`
	Customer     *model.Customer `json:"customer,omitempty"`
	PointsEarned int64           `json:"points_earned,omitempty"`
	Version      uint64          `json:"version"`
	At           time.Time       `json:"at"`
}

// Notifier delivers an event. Callers treat delivery as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
