package engine

import (
	"context"
	"log/slog"
)

// Sink receives emissions from the dispatcher, e.g. a WebSocket hub or a
// Redis stream.
type Sink interface {
	Publish(ctx context.Context, e Emission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Emission) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, e Emission) error {
	return f(ctx, e)
}

// Dispatcher delivers emissions to sinks on a single goroutine, in the
// order they were enqueued.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//
// A failing sink is logged and skipped; scoring has already committed by
// the time an emission is dispatched.
type Dispatcher struct {
	queue *emissionQueue
	sinks []Sink
}

// NewDispatcher creates a dispatcher for the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		queue: newEmissionQueue(),
		sinks: append([]Sink(nil), sinks...),
	}
}

// Enqueue schedules emissions for delivery. Returns false once the
// dispatcher has stopped.
func (d *Dispatcher) Enqueue(emissions ...Emission) bool {
	for _, e := range emissions {
		if !d.queue.Enqueue(e) {
			return false
		}
	}
	return true
}

// Run delivers emissions until the context is cancelled or Stop is called.
// Emissions already queued when Stop is called are still delivered.
func (d *Dispatcher) Run(ctx context.Context) error {
	slog.Info("dispatcher starting", "sinks", len(d.sinks))

	for {
		if e, ok := d.queue.TryDequeue(); ok {
			d.deliver(ctx, e)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("dispatcher stopping: context cancelled")
			d.queue.Close()
			return ctx.Err()

		case <-d.queue.Wait():
			// The signal channel is closed with the queue, so this also
			// fires on Stop.
			if d.queue.Len() == 0 && d.stopped() {
				slog.Info("dispatcher stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue; Run returns once it has drained.
func (d *Dispatcher) Stop() {
	d.queue.Close()
}

// Pending returns the number of undelivered emissions.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

func (d *Dispatcher) stopped() bool {
	d.queue.mu.Lock()
	defer d.queue.mu.Unlock()
	return d.queue.closed
}

func (d *Dispatcher) deliver(ctx context.Context, e Emission) {
	for _, s := range d.sinks {
		if err := s.Publish(ctx, e); err != nil {
			slog.Error("emission delivery failed",
				"kind", e.Kind,
				"match", e.MatchID,
				"seq", e.Seq,
				"error", err,
			)
		}
	}
}
