// Package midiport wraps gitlab.com/gomidi/midi/v2's driver layer with
// selector-based port lookup and blocking-recv/fallible-send handles,
// independent of which concrete MIDI driver is linked in.
package midiport

import (
	"context"
	"fmt"

	"gitlab.com/gomidi/midi/v2/drivers"
)

// driverIn and driverOut narrow drivers.In/drivers.Out down to the methods
// this package actually calls, so tests can substitute fakes without a
// real MIDI backend.
type driverIn interface {
	String() string
	Open() error
	Close() error
	Listen(func(msg []byte, timestampms int32), drivers.ListenConfig) (func(), error)
}

type driverOut interface {
	String() string
	Open() error
	Close() error
	Send([]byte) error
}

// insFn/outsFn are swapped out in tests.
var insFn = func() ([]drivers.In, error) { return drivers.Ins() }
var outsFn = func() ([]drivers.Out, error) { return drivers.Outs() }

// ListInputs returns the driver-reported names of every available MIDI
// input port.
func ListInputs() ([]string, error) {
	ins, err := insFn()
	if err != nil {
		return nil, fmt.Errorf("midiport: list inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// ListOutputs returns the driver-reported names of every available MIDI
// output port.
func ListOutputs() ([]string, error) {
	outs, err := outsFn()
	if err != nil {
		return nil, fmt.Errorf("midiport: list outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// OpenInput resolves selector (index, "N:M" wire address, or exact name)
// against the available input ports and opens it.
func OpenInput(selector string) (*InputHandle, error) {
	ins, err := insFn()
	if err != nil {
		return nil, fmt.Errorf("midiport: list inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	idx, ok := resolveSelector(names, selector)
	if !ok {
		return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, selector)
	}
	return openInputPort(ins[idx])
}

// OpenOutput resolves selector against the available output ports and
// opens it.
func OpenOutput(selector string) (*OutputHandle, error) {
	outs, err := outsFn()
	if err != nil {
		return nil, fmt.Errorf("midiport: list outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	idx, ok := resolveSelector(names, selector)
	if !ok {
		return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, selector)
	}
	return openOutputPort(outs[idx])
}

func openInputPort(in driverIn) (*InputHandle, error) {
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	h := &InputHandle{name: in.String(), port: in, queue: newUnboundedQueue()}
	stop, err := in.Listen(func(msg []byte, _ int32) {
		frame := make([]byte, len(msg))
		copy(frame, msg)
		h.queue.push(frame)
	}, drivers.ListenConfig{})
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	h.stop = stop
	return h, nil
}

func openOutputPort(out driverOut) (*OutputHandle, error) {
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	return &OutputHandle{name: out.String(), port: out}, nil
}

// InputHandle delivers inbound MIDI frames as a lazy sequence on an
// unbounded queue. One logical frame per MIDI message boundary; the
// underlying driver already frames SysEx.
type InputHandle struct {
	name  string
	port  driverIn
	queue *unboundedQueue
	stop  func()
}

// Name is the handle's stable display name.
func (h *InputHandle) Name() string { return h.name }

// Recv awaits the next inbound frame, returning ok=false once the port is
// closed.
func (h *InputHandle) Recv() (frame []byte, ok bool) {
	return h.queue.pop()
}

// RecvContext is like Recv but also returns early if ctx is canceled
// before a frame arrives; used by discovery's settle-window wait.
func (h *InputHandle) RecvContext(ctx context.Context) (frame []byte, ok bool) {
	return h.queue.popCtx(ctx)
}

// Close stops delivery and releases the underlying driver port.
func (h *InputHandle) Close() error {
	if h.stop != nil {
		h.stop()
	}
	h.queue.close()
	return h.port.Close()
}

// OutputHandle sends raw MIDI frames with no implicit queueing beyond the
// driver.
type OutputHandle struct {
	name string
	port driverOut
}

// Name is the handle's stable display name.
func (h *OutputHandle) Name() string { return h.name }

// Send writes one raw MIDI frame. Never retried internally.
func (h *OutputHandle) Send(frame []byte) error {
	if err := h.port.Send(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// Close releases the underlying driver port.
func (h *OutputHandle) Close() error {
	return h.port.Close()
}
