package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/mcpgate/console/pkg/eventbus"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultDuration is applied when a publisher does not set one.
const DefaultDuration = 4500 * time.Millisecond

// Notification is a transient message. Once published it is owned by the
// consumer's dismissal timer; the id is dismissed at most once.
type Notification struct {
	ID           string
	Message      string
	Severity     Severity
	Duration     time.Duration
	ShowProgress bool
}

// Option overrides a default field on a notification before publish.
type Option func(*Notification)

func WithSeverity(s Severity) Option {
	return func(n *Notification) { n.Severity = s }
}

func WithDuration(d time.Duration) Option {
	return func(n *Notification) {
		if d > 0 {
			n.Duration = d
		}
	}
}

func WithoutProgress() Option {
	return func(n *Notification) { n.ShowProgress = false }
}

// Scheduler is the process-wide publish channel for notifications. Publishing
// is synchronous, never blocks, and tolerates zero subscribers: a notification
// published before any consumer attaches is simply dropped.
type Scheduler struct {
	bus *eventbus.Bus
}

func NewScheduler(bus *eventbus.Bus) *Scheduler {
	return &Scheduler{bus: bus}
}

// Publish fills defaults, assigns a fresh id, and fans the record out to every
// current subscriber. The completed record is returned to the caller.
func (s *Scheduler) Publish(message string, opts ...Option) Notification {
	n := Notification{
		ID:           uuid.NewString(),
		Message:      message,
		Severity:     SeverityInfo,
		Duration:     DefaultDuration,
		ShowProgress: true,
	}
	for _, opt := range opts {
		opt(&n)
	}
	s.bus.Publish(n)
	return n
}

// Info publishes an info-severity notification.
func (s *Scheduler) Info(message string) Notification {
	return s.Publish(message)
}

// Success publishes a success-severity notification.
func (s *Scheduler) Success(message string) Notification {
	return s.Publish(message, WithSeverity(SeveritySuccess))
}

// Error publishes an error-severity notification.
func (s *Scheduler) Error(message string) Notification {
	return s.Publish(message, WithSeverity(SeverityError))
}

// Subscribe attaches fn to the publish channel and returns a disposer.
// Detaching does not affect other subscribers or in-flight timers.
func (s *Scheduler) Subscribe(fn func(Notification)) func() {
	return s.bus.Subscribe(Notification{}, func(event any) {
		fn(event.(Notification))
	})
}
