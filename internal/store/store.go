// Package store implements the process-wide controller state map: a
// named u16 parameter table keyed by the device descriptor's control
// map, with origin-tagged writes and a broadcast of change events. The
// broadcaster is its own lock domain, independent of the value map's
// mutex.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gopher-pod/podctl/internal/catalog"
)

// Origin identifies who produced a store write.
type Origin int

const (
	Internal Origin = iota
	GUI
	MIDI
)

func (o Origin) String() string {
	switch o {
	case GUI:
		return "gui"
	case MIDI:
		return "midi"
	default:
		return "internal"
	}
}

// Signal selects whether an unchanged write still broadcasts.
type Signal int

const (
	Change Signal = iota
	Force
)

// Event is one broadcast notification: the control that changed and who
// changed it.
type Event struct {
	Name   string
	Origin Origin
}

// ErrUnknownName names the error kind for a control name absent from the
// descriptor's control map. No Store method returns it: SetFull logs such
// a write and drops it, and Get reports ok=false.
var ErrUnknownName = errors.New("store: unknown control name")

// Store is a named u16 parameter map constructed once from a device
// descriptor; entries are never added or removed thereafter.
type Store struct {
	descriptor catalog.Descriptor
	logger     *log.Logger

	mu     sync.Mutex
	values map[string]uint16

	bcast *broadcaster
}

// New builds a store for descriptor with every control at its zero
// value.
func New(descriptor catalog.Descriptor, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	values := make(map[string]uint16, len(descriptor.Controls))
	for name := range descriptor.Controls {
		values[name] = 0
	}
	return &Store{
		descriptor: descriptor,
		logger:     logger,
		values:     values,
		bcast:      newBroadcaster(),
	}
}

// Descriptor returns the device descriptor the store was built from.
func (s *Store) Descriptor() catalog.Descriptor { return s.descriptor }

// Has reports whether name is one of the descriptor's controls.
func (s *Store) Has(name string) bool {
	_, ok := s.descriptor.Controls[name]
	return ok
}

// Get returns the current value of name.
func (s *Store) Get(name string) (uint16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// GetConfig returns the control descriptor for name.
func (s *Store) GetConfig(name string) (catalog.ControlDescriptor, bool) {
	cd, ok := s.descriptor.Controls[name]
	return cd, ok
}

// GetConfigByCC is the inverse index of GetConfig: which control, if any,
// owns wire CC number cc.
func (s *Store) GetConfigByCC(cc uint8) (string, catalog.ControlDescriptor, bool) {
	return s.descriptor.ControlByCC(cc)
}

// Set writes value to name with origin, broadcasting only if the value
// actually changed.
func (s *Store) Set(name string, value uint16, origin Origin) {
	s.SetFull(name, value, origin, Change)
}

// SetFull is Set generalized with an explicit signal: Force broadcasts
// even when the value is unchanged.
func (s *Store) SetFull(name string, value uint16, origin Origin, signal Signal) {
	cd, ok := s.descriptor.Controls[name]
	if !ok {
		s.logger.Warn("store: write to unknown name dropped", "name", name, "origin", origin)
		return
	}
	if !cd.InDomain(value) {
		s.logger.Warn("store: write out of domain", "name", name, "value", value, "origin", origin)
	}

	s.mu.Lock()
	prev, had := s.values[name]
	changed := !had || prev != value
	s.values[name] = value
	s.mu.Unlock()

	if changed || signal == Force {
		s.bcast.publish(Event{Name: name, Origin: origin})
	}
}

// Subscription is a broadcast receiver; every subscriber observes every
// event from its subscription point in order, but may lag.
type Subscription struct {
	sub *subscriber
}

// Recv blocks for the next event. ok is false once the store is closed.
// lagged is nonzero if events were dropped before this one because the
// subscriber fell behind.
func (sub *Subscription) Recv() (event Event, lagged int, ok bool) {
	return sub.sub.recv()
}

// Close releases the subscription. Safe to call more than once.
func (sub *Subscription) Close() {
	sub.sub.close()
}

// Subscribe registers a new broadcast receiver.
func (s *Store) Subscribe() *Subscription {
	return &Subscription{sub: s.bcast.subscribe()}
}

// Close tears the store's broadcast down; existing subscriptions observe
// channel closure.
func (s *Store) Close() {
	s.bcast.shutdown()
}

// String is for diagnostics only.
func (s *Store) String() string {
	return fmt.Sprintf("store(%s, %d controls)", s.descriptor.Name, len(s.descriptor.Controls))
}
