package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Event is one path change inside a debounced batch.
type Event struct {
	Path string
	Op   EventOp
}

// EventOp represents the type of file system operation.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Debouncer collects file system events and emits one batch after a quiet period.
// Events for the same path within the window collapse into the latest one.
type Debouncer struct {
	interval time.Duration
	events   map[string]Event
	mu       sync.Mutex
	timer    *time.Timer
	output   chan []Event
	done     chan struct{}
	closed   bool
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		events:   make(map[string]Event),
		output:   make(chan []Event, 16),
		done:     make(chan struct{}),
	}
}

// Output returns the channel that receives batched events. Batches are sorted by path.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event and restarts the quiet period. Ignored after Close.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.events[path] = Event{Path: path, Op: op}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Close stops the pending timer and drops unflushed events. A flush blocked on
// a full output channel is released.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.events = nil
	close(d.done)
}

// flush hands the accumulated events to the output channel.
func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.closed || len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]Event, 0, len(d.events))
	for _, event := range d.events {
		batch = append(batch, event)
	}
	d.events = make(map[string]Event)
	d.mu.Unlock()

	slices.SortFunc(batch, func(a, b Event) int {
		return strings.Compare(a.Path, b.Path)
	})

	select {
	case d.output <- batch:
	case <-d.done:
	}
}
