// Package obs provides a narrow Observer capability plus a keyed
// dispatch table for reacting to store changes outside the mediator,
// driving a CLI status reporter.
package obs

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gopher-pod/podctl/internal/store"
)

// Observer is notified whenever a control's value changes. One
// operation, matching the spec's preference for a narrow capability
// over an erased-closure registry where a typed one is possible.
type Observer interface {
	Notify(name string, value uint16, origin store.Origin)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(name string, value uint16, origin store.Origin)

func (f ObserverFunc) Notify(name string, value uint16, origin store.Origin) {
	f(name, value, origin)
}

// allKey is the dispatch table key for observers registered against
// every control rather than one named control.
const allKey = ""

// Dispatcher is the keyed registry: a control name maps to an ordered
// list of observers.
type Dispatcher struct {
	mu        sync.RWMutex
	observers map[string][]Observer
}

// NewDispatcher returns an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{observers: make(map[string][]Observer)}
}

// Register adds o under name, preserving registration order. Register
// against "" to receive every control's changes.
func (d *Dispatcher) Register(name string, o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers[name] = append(d.observers[name], o)
}

func (d *Dispatcher) dispatch(name string, value uint16, origin store.Origin) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.observers[name] {
		o.Notify(name, value, origin)
	}
	for _, o := range d.observers[allKey] {
		o.Notify(name, value, origin)
	}
}

// Run subscribes to st and dispatches every change event until ctx is
// canceled or the store is closed. It is meant to run as its own task
// alongside the mediator's two tasks.
func (d *Dispatcher) Run(ctx context.Context, st *store.Store) error {
	sub := st.Subscribe()
	defer sub.Close()

	events := make(chan store.Event)
	go func() {
		defer close(events)
		for {
			ev, _, ok := sub.Recv()
			if !ok {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			value, ok := st.Get(ev.Name)
			if !ok {
				continue
			}
			d.dispatch(ev.Name, value, ev.Origin)
		}
	}
}

// Reporter is the CLI status reporter: an Observer that logs every
// store change.
type Reporter struct {
	logger *log.Logger
}

// NewReporter builds a Reporter. A nil logger falls back to the
// package-default charmbracelet/log logger.
func NewReporter(logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Reporter{logger: logger}
}

// Notify implements Observer.
func (r *Reporter) Notify(name string, value uint16, origin store.Origin) {
	r.logger.Info("control changed", "name", name, "value", value, "origin", origin.String())
}
