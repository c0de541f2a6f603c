// Package mediator implements the bidirectional store<->wire bridge: an
// outbound task translating store changes into CC/SysEx, an inbound task
// translating received frames into store writes, and the
// virtual-controls rules engine that composes derived parameters from
// real ones.
package mediator

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/gopher-pod/podctl/internal/store"
	"github.com/gopher-pod/podctl/internal/wire"
)

// InPort is the subset of *midiport.InputHandle the inbound task needs.
type InPort interface {
	Recv() (frame []byte, ok bool)
}

// OutPort is the subset of *midiport.OutputHandle the outbound task
// needs.
type OutPort interface {
	Send(frame []byte) error
}

// midiTxCapacity bounds the mediator-originated outbound queue. Spec §5
// describes it as unbounded, but also notes "outbound volume is small:
// interactive parameter edits" — a generously sized buffered channel
// stands in for true unboundedness without the extra machinery of a
// custom queue type, and is large enough that producers (the inbound
// task, enqueuing at most one reply per received frame) never meet it.
const midiTxCapacity = 4096

// Mediator bridges one store to one MIDI port pair. Every field is set
// at construction and never mutated afterward; Run owns all further
// state via its two tasks.
type Mediator struct {
	store   *store.Store
	in      InPort
	out     OutPort
	codec   wire.Codec
	channel uint8
	logger  *log.Logger
	rules   []Rule

	midiTx chan wire.Message
}

// New builds a Mediator. channel is the MIDI channel outbound Control
// Change messages are sent on (default: 1). rules is the virtual-controls
// rules engine to evaluate on every store change.
func New(st *store.Store, in InPort, out OutPort, codec wire.Codec, channel uint8, logger *log.Logger, rules []Rule) *Mediator {
	if logger == nil {
		logger = log.Default()
	}
	return &Mediator{
		store:   st,
		in:      in,
		out:     out,
		codec:   codec,
		channel: channel,
		logger:  logger,
		rules:   rules,
		midiTx:  make(chan wire.Message, midiTxCapacity),
	}
}

// Run spawns the outbound and inbound tasks and blocks until ctx is
// canceled or one of them returns an error. Both tasks honor ctx
// cancellation at their suspension points.
func (m *Mediator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.outboundLoop(ctx) })
	g.Go(func() error { return m.inboundLoop(ctx) })
	return g.Wait()
}

// outboundLoop is the outbound task: it selects over mediator-originated
// messages and store change events, in no particular priority order
// between the two.
func (m *Mediator) outboundLoop(ctx context.Context) error {
	sub := m.store.Subscribe()
	defer sub.Close()

	events := make(chan store.Event)
	go func() {
		defer close(events)
		for {
			ev, lag, ok := sub.Recv()
			if !ok {
				return
			}
			if lag > 0 {
				m.logger.Warn("mediator: outbound subscriber lagged", "dropped", lag)
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
		case msg, ok := <-m.midiTx:
			if !ok {
				return nil
			}
			m.send(msg)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.handleChange(ev)
		}
	}
}

// inboundLoop is the inbound task: it loops on input.recv(), decoding
// and dispatching each frame.
func (m *Mediator) inboundLoop(ctx context.Context) error {
	frames := make(chan []byte)
	go func() {
		defer close(frames)
		for {
			frame, ok := m.in.Recv()
			if !ok {
				return
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			m.handleFrame(frame)
		}
	}
}

// handleChange applies the virtual-controls rules engine to ev, then —
// unless ev came from MIDI (no echo of received changes) — emits a CC
// for any real, CC-bearing control it names.
func (m *Mediator) handleChange(ev store.Event) {
	m.applyRules(ev)

	if ev.Origin == store.MIDI {
		return
	}
	cd, ok := m.store.GetConfig(ev.Name)
	if !ok || !cd.HasCC {
		return
	}
	value, ok := m.store.Get(ev.Name)
	if !ok {
		return
	}

	wireValue := clamp7(value * cd.Scale())
	m.send(wire.ControlChange{Channel: m.channel, Control: cd.CC, Value: wireValue})
}

func (m *Mediator) applyRules(ev store.Event) {
	for _, r := range m.rules {
		if !r.matches(ev) {
			continue
		}
		value, ok := m.store.Get(ev.Name)
		if !ok {
			continue
		}
		r.Action(m.store, value, ev.Origin)
	}
}

// handleFrame decodes one inbound MIDI frame and dispatches it. Codec
// errors and unrecognized messages are logged and dropped; the task
// continues.
func (m *Mediator) handleFrame(frame []byte) {
	msg, err := m.codec.FromBytes(frame)
	if err != nil {
		m.logger.Warn("mediator: dropping unparsable frame", "err", err)
		return
	}

	switch msg := msg.(type) {
	case wire.ControlChange:
		m.handleControlChange(msg)

	case wire.ProgramEditBufferDumpRequest:
		m.enqueue(wire.ProgramEditBufferDump{Ver: 1, Data: m.buildDump()})

	case wire.ProgramPatchDumpRequest:
		m.enqueue(wire.ProgramPatchDump{Patch: msg.Patch, Ver: 1, Data: m.buildDump()})

	case wire.ProgramEditBufferDump:
		m.loadDump(msg.Data, store.MIDI)

	case wire.UniversalDeviceInquiry:
		d := m.store.Descriptor()
		m.enqueue(wire.UniversalDeviceInquiryResponse{
			Channel: msg.Channel,
			Family:  d.Family,
			Member:  d.Member,
			Version: "0223",
		})

	default:
		m.logger.Debug("mediator: unrecognized message kind dropped")
	}
}

func (m *Mediator) handleControlChange(msg wire.ControlChange) {
	name, cd, ok := m.store.GetConfigByCC(msg.Control)
	if !ok {
		return
	}
	scale := cd.Scale()
	if scale == 0 {
		return
	}
	m.store.Set(name, uint16(msg.Value)/scale, store.MIDI)
}

// buildDump serializes the current store into a program_size byte
// buffer, used as the edit-buffer dump response. See dump.go for the
// field-layout rationale.
func (m *Mediator) buildDump() []byte {
	d := m.store.Descriptor()
	data := make([]byte, d.ProgramSize)
	for i, f := range dumpLayout(d) {
		if i >= len(data) {
			break
		}
		cd := d.Controls[f.name]
		v, _ := m.store.Get(f.name)
		data[i] = clamp7(v * cd.Scale())
	}
	return data
}

// loadDump is the inverse of buildDump: a bulk store update tagged with
// origin.
func (m *Mediator) loadDump(data []byte, origin store.Origin) {
	d := m.store.Descriptor()
	for i, f := range dumpLayout(d) {
		if i >= len(data) {
			break
		}
		cd := d.Controls[f.name]
		scale := cd.Scale()
		if scale == 0 {
			continue
		}
		m.store.SetFull(f.name, uint16(data[i])/scale, origin, store.Force)
	}
}

// enqueue hands a mediator-originated message to the outbound task.
func (m *Mediator) enqueue(msg wire.Message) {
	m.midiTx <- msg
}

func (m *Mediator) send(msg wire.Message) {
	b, err := m.codec.ToBytes(msg)
	if err != nil {
		m.logger.Warn("mediator: encode failed", "err", err)
		return
	}
	if err := m.out.Send(b); err != nil {
		m.logger.Warn("mediator: send failed", "err", err)
	}
}

func clamp7(v uint16) uint8 {
	if v > 127 {
		return 127
	}
	return uint8(v)
}
