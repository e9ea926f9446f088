// Package event carries progress notifications out of the codecs.
//
// Codecs accept an optional Sink and call it synchronously while they work.
// A nil Sink discards everything. A Sink that panics aborts the operation:
// Emit recovers the panic and returns it as an error, which the codec
// returns as its own failure.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/joshuapare/ctrkit/pkg/types"
)

// CodeSinkPanic is returned by Emit when a sink panics.
const CodeSinkPanic types.Code = "event.sink_panic"

// ErrSinkPanic matches errors produced by a panicking sink.
var ErrSinkPanic = &types.Error{Code: CodeSinkPanic, Msg: "event: sink panicked"}

// Event is one notification. Payload types are defined by the emitting
// package.
type Event struct {
	Name    string
	Payload any
}

// Sink receives events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

type discard struct{}

func (discard) Emit(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

// Emit delivers an event to s, treating a nil s as Discard. A panic inside
// the sink is returned as an error carrying CodeSinkPanic.
func Emit(s Sink, name string, payload any) (err error) {
	if s == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			cause, _ := r.(error)
			err = &types.Error{
				Code: CodeSinkPanic,
				Msg:  fmt.Sprintf("event: sink panicked on %s: %v", name, r),
				Err:  cause,
			}
		}
	}()
	s.Emit(Event{Name: name, Payload: payload})
	return nil
}

// Multi fans events out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	live := slices.DeleteFunc(slices.Clone(sinks), func(s Sink) bool { return s == nil })
	return SinkFunc(func(e Event) {
		for _, s := range live {
			s.Emit(e)
		}
	})
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

// Filter returns the recorded events with the given name.
func (r *Recorder) Filter(name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Log returns a sink writing each event as a structured record at level.
// Payloads implementing slog.LogValuer control their own rendering.
func Log(logger *slog.Logger, level slog.Level) Sink {
	if logger == nil {
		return Discard
	}
	return SinkFunc(func(e Event) {
		if !logger.Enabled(context.Background(), level) {
			return
		}
		logger.Log(context.Background(), level, e.Name, slog.Any("payload", e.Payload))
	})
}
