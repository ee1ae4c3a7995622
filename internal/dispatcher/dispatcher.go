// Package dispatcher is the uniform envelope around every network-bound
// operation: correlation ids, interaction start/end bookkeeping, and the
// single point where errors convert into user-facing notifications.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tapp-client/internal/telemetry"
)

// Severity grades a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// InteractionStart announces that an operation went in flight.
type InteractionStart struct {
	ID          string
	Description string
}

// InteractionEnd announces that the operation with the given id settled.
type InteractionEnd struct {
	ID string
}

// Notification is a user-facing failure report.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

// Listener receives the dispatcher's side-channel events. Nil callbacks are
// skipped.
type Listener struct {
	OnInteractionStart func(InteractionStart)
	OnInteractionEnd   func(InteractionEnd)
	OnNotification     func(Notification)
}

// Dispatcher wraps operations with correlation ids and status events. Each
// call gets its own id, so start/end pairs nest correctly under concurrent
// overlapping operations and a consumer can track how many are in flight.
type Dispatcher struct {
	logger  *zap.Logger
	metrics *telemetry.Metrics

	mu        sync.RWMutex
	listeners []Listener
}

// New builds a dispatcher.
func New(logger *zap.Logger, metrics *telemetry.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, metrics: metrics}
}

// Subscribe registers a listener for side-channel events.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Notify emits a notification outside of an operation (used by callers that
// handle their own errors).
func (d *Dispatcher) Notify(n Notification) {
	if d.metrics != nil {
		d.metrics.NotificationEmitted(string(n.Severity))
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		if l.OnNotification != nil {
			l.OnNotification(n)
		}
	}
}

func (d *Dispatcher) emitStart(e InteractionStart) {
	if d.metrics != nil {
		d.metrics.InteractionStarted()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		if l.OnInteractionStart != nil {
			l.OnInteractionStart(e)
		}
	}
}

func (d *Dispatcher) emitEnd(e InteractionEnd, operation, outcome string, duration time.Duration) {
	if d.metrics != nil {
		d.metrics.InteractionEnded(operation, outcome, duration)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		if l.OnInteractionEnd != nil {
			l.OnInteractionEnd(e)
		}
	}
}

// Operation describes one network-bound call. MapError, when set, converts a
// failure into a notification and the error is swallowed; when nil, the
// error propagates to the caller.
type Operation[T any] struct {
	Name        string
	Description string
	Run         func(context.Context) (T, error)
	MapError    func(error) Notification
}

// Do executes the operation under a fresh correlation id. The interaction
// end event fires exactly once for every start, whether the operation
// succeeds, fails handled, or fails propagated. There are no retries; a
// failed operation is terminal for that call.
func Do[T any](ctx context.Context, d *Dispatcher, op Operation[T]) (T, error) {
	id := uuid.NewString()
	start := time.Now()
	outcome := "success"

	d.emitStart(InteractionStart{ID: id, Description: op.Description})
	defer func() {
		d.emitEnd(InteractionEnd{ID: id}, op.Name, outcome, time.Since(start))
	}()

	result, err := op.Run(ctx)
	if err == nil {
		return result, nil
	}

	var zero T
	if op.MapError == nil {
		outcome = "error"
		return zero, err
	}

	outcome = "handled"
	n := op.MapError(err)
	d.logger.Sugar().Warnw("operation failed",
		"operation", op.Name,
		"interaction_id", id,
		"error", err,
	)
	d.Notify(n)
	return zero, nil
}
