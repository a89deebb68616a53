// Package trace records the inter-agent hops of a single request.
//
// A Trace is created per request and carried through context.Context so
// delegates append to the trace of the request they serve. A nil *Trace is
// valid and discards everything.
package trace

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Event is one hop between two agents.
type Event struct {
	Sender   string         `json:"sender"`
	Receiver string         `json:"receiver"`
	Action   string         `json:"action"`
	Args     map[string]any `json:"args,omitempty"`
}

// String formats the event the way Dump prints it.
func (e Event) String() string {
	args := e.Args
	if args == nil {
		args = map[string]any{}
	}
	return fmt.Sprintf("[A2A] from=%s to=%s action=%s args=%v", e.Sender, e.Receiver, e.Action, args)
}

type Trace struct {
	mu     sync.Mutex
	events []Event
}

func New() *Trace {
	return &Trace{}
}

// Record appends a hop. The args map is copied.
func (t *Trace) Record(sender, receiver, action string, args map[string]any) {
	t.Append(Event{
		Sender:   sender,
		Receiver: receiver,
		Action:   action,
		Args:     cloneArgs(args),
	})
}

// Append adds already-built events, e.g. the ones returned by a remote agent.
func (t *Trace) Append(events ...Event) {
	if t == nil || len(events) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, events...)
}

func (t *Trace) Clear() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// Events returns a snapshot of the recorded events.
func (t *Trace) Events() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Dump renders every event on its own line.
func (t *Trace) Dump() string {
	events := t.Events()
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, ev.String())
	}
	return strings.Join(lines, "\n")
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying tr.
func NewContext(ctx context.Context, tr *Trace) context.Context {
	return context.WithValue(ctx, ctxKey{}, tr)
}

// FromContext returns the trace carried by ctx, or nil when there is none.
func FromContext(ctx context.Context) *Trace {
	if ctx == nil {
		return nil
	}
	tr, _ := ctx.Value(ctxKey{}).(*Trace)
	return tr
}

// Record appends a hop to the trace carried by ctx, if any.
func Record(ctx context.Context, sender, receiver, action string, args map[string]any) {
	FromContext(ctx).Record(sender, receiver, action, args)
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
