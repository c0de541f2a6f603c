// Package discovery implements the binary-search MIDI device probe: find
// the one input/output port pair, among potentially many host MIDI
// ports, that talks to a cataloged device.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gopher-pod/podctl/internal/catalog"
	"github.com/gopher-pod/podctl/internal/midiport"
	"github.com/gopher-pod/podctl/internal/wire"
)

// DefaultSettle is the settle window a probe round waits for replies by
// default.
const DefaultSettle = 1000 * time.Millisecond

// Sentinel errors for the three ways discovery can fail.
var (
	ErrNoResponse           = errors.New("discovery: no device responded")
	ErrAmbiguousInputs      = errors.New("discovery: every input responded (loopback?)")
	ErrOutputNarrowingStuck = errors.New("discovery: lost device during output narrowing")
)

// InputPort is the subset of *midiport.InputHandle discovery depends on,
// named here so tests can supply fakes without a real MIDI backend.
type InputPort interface {
	Name() string
	RecvContext(ctx context.Context) (frame []byte, ok bool)
	Close() error
}

// OutputPort is the subset of *midiport.OutputHandle discovery depends on.
type OutputPort interface {
	Name() string
	Send(frame []byte) error
	Close() error
}

// Options configures one discovery run.
type Options struct {
	// Settle is how long each probe round waits for replies. Zero means
	// DefaultSettle.
	Settle time.Duration
	Logger *log.Logger
}

func (o Options) settle() time.Duration {
	if o.Settle <= 0 {
		return DefaultSettle
	}
	return o.Settle
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Result is the discovered pair and the catalog entry it identified as.
type Result struct {
	Input      InputPort
	Output     OutputPort
	Descriptor catalog.Descriptor
}

var probeCodec = wire.Codec{}

// Discover runs the two-phase protocol over the given candidate ports:
// input selection by broadcast inquiry, then output
// narrowing by halving. It does not open or close any port; callers own
// that (see DiscoverAuto for the common case).
func Discover(ctx context.Context, ins []InputPort, outs []OutputPort, opts Options) (*Result, error) {
	if len(outs) == 0 {
		return nil, fmt.Errorf("%w: no candidate outputs", ErrOutputNarrowingStuck)
	}
	if len(ins) == 0 {
		return nil, ErrNoResponse
	}

	logger := opts.logger()
	settle := opts.settle()

	matches := selectInput(ctx, ins, outs, settle, logger)
	if len(matches) == 0 {
		return nil, ErrNoResponse
	}
	if len(matches) == len(ins) {
		return nil, ErrAmbiguousInputs
	}

	chosen := matches[0]
	activeOuts := outs
	windows := 1

	for len(activeOuts) > 1 {
		half := (len(activeOuts) + 1) / 2
		first := activeOuts[:half]
		rest := activeOuts[half:]

		if probeReplies(ctx, chosen.in, first, settle) {
			windows++
			activeOuts = first
			continue
		}
		windows++

		if len(rest) == 0 {
			return nil, ErrOutputNarrowingStuck
		}
		if probeReplies(ctx, chosen.in, rest, settle) {
			windows++
			activeOuts = rest
			continue
		}
		windows++
		return nil, ErrOutputNarrowingStuck
	}

	logger.Debug("discovery complete", "input", chosen.in.Name(), "output", activeOuts[0].Name(), "windows", windows, "descriptor", chosen.descriptor.Name)
	return &Result{Input: chosen.in, Output: activeOuts[0], Descriptor: chosen.descriptor}, nil
}

// Identify verifies that one already-chosen input/output pair talks to a
// cataloged device: it sends a single inquiry on out and waits for a
// recognizable reply on in, with none of Discover's ambiguity or
// narrowing checks (those only make sense with more than one candidate
// to disambiguate between). Used when the caller already knows which
// ports to use, e.g. explicit --in/--out selectors, and only needs to
// confirm the pair is alive and learn which descriptor it is.
func Identify(ctx context.Context, in InputPort, out OutputPort, opts Options) (*Result, error) {
	logger := opts.logger()
	settle := opts.settle()

	broadcast([]OutputPort{out}, logger)

	settleCtx, cancel := context.WithTimeout(ctx, settle)
	defer cancel()

	d, ok := awaitRecognized(settleCtx, in)
	if !ok {
		return nil, ErrNoResponse
	}
	return &Result{Input: in, Output: out, Descriptor: d}, nil
}

type inputMatch struct {
	in         InputPort
	descriptor catalog.Descriptor
}

// selectInput broadcasts an inquiry on every output and collects which
// inputs produced a recognizable response within the settle window.
func selectInput(ctx context.Context, ins []InputPort, outs []OutputPort, settle time.Duration, logger *log.Logger) []inputMatch {
	broadcast(outs, logger)

	settleCtx, cancel := context.WithTimeout(ctx, settle)
	defer cancel()

	results := make(chan inputMatch, len(ins))
	var wg sync.WaitGroup
	for _, in := range ins {
		wg.Add(1)
		go func(in InputPort) {
			defer wg.Done()
			if d, ok := awaitRecognized(settleCtx, in); ok {
				results <- inputMatch{in: in, descriptor: d}
			}
		}(in)
	}
	wg.Wait()
	close(results)

	matches := make([]inputMatch, 0, len(ins))
	for m := range results {
		matches = append(matches, m)
	}
	return matches
}

// awaitRecognized drains frames from in until the context is done,
// returning the first that decodes as a recognized device's inquiry
// response.
func awaitRecognized(ctx context.Context, in InputPort) (catalog.Descriptor, bool) {
	for {
		frame, ok := in.RecvContext(ctx)
		if !ok {
			return catalog.Descriptor{}, false
		}
		msg, err := probeCodec.FromBytes(frame)
		if err != nil {
			continue
		}
		resp, ok := msg.(wire.UniversalDeviceInquiryResponse)
		if !ok {
			continue
		}
		d, ok := catalog.FindByIdentity(resp.Family, resp.Member)
		if !ok {
			continue
		}
		return d, true
	}
}

// probeReplies sends an inquiry on outs and reports whether any
// recognizable reply arrived on in before settle elapses.
func probeReplies(ctx context.Context, in InputPort, outs []OutputPort, settle time.Duration) bool {
	broadcast(outs, log.Default())

	settleCtx, cancel := context.WithTimeout(ctx, settle)
	defer cancel()

	for {
		frame, ok := in.RecvContext(settleCtx)
		if !ok {
			return false
		}
		msg, err := probeCodec.FromBytes(frame)
		if err != nil {
			continue
		}
		if _, ok := msg.(wire.UniversalDeviceInquiryResponse); ok {
			return true
		}
	}
}

func broadcast(outs []OutputPort, logger *log.Logger) {
	frame, err := probeCodec.ToBytes(wire.UniversalDeviceInquiry{Channel: wire.BroadcastChannel})
	if err != nil {
		return
	}
	for _, o := range outs {
		if err := o.Send(frame); err != nil {
			logger.Warn("discovery: inquiry send failed", "port", o.Name(), "err", err)
		}
	}
}

// DiscoverAuto lists every host MIDI port, excludes this process's own
// virtual loopback ports, opens every candidate, runs Discover, and
// closes every port that wasn't chosen.
func DiscoverAuto(ctx context.Context, opts Options) (*midiport.InputHandle, *midiport.OutputHandle, catalog.Descriptor, error) {
	inNames, err := midiport.ListInputs()
	if err != nil {
		return nil, nil, catalog.Descriptor{}, fmt.Errorf("discovery: %w", err)
	}
	outNames, err := midiport.ListOutputs()
	if err != nil {
		return nil, nil, catalog.Descriptor{}, fmt.Errorf("discovery: %w", err)
	}

	var ins []*midiport.InputHandle
	for _, name := range inNames {
		if midiport.IsOwnVirtualPort(name) {
			continue
		}
		h, err := midiport.OpenInput(name)
		if err != nil {
			continue
		}
		ins = append(ins, h)
	}
	var outs []*midiport.OutputHandle
	for _, name := range outNames {
		if midiport.IsOwnVirtualPort(name) {
			continue
		}
		h, err := midiport.OpenOutput(name)
		if err != nil {
			continue
		}
		outs = append(outs, h)
	}

	closeAllInputs := func() {
		for _, h := range ins {
			_ = h.Close()
		}
	}
	closeAllOutputs := func() {
		for _, h := range outs {
			_ = h.Close()
		}
	}

	inPorts := make([]InputPort, len(ins))
	for i, h := range ins {
		inPorts[i] = h
	}
	outPorts := make([]OutputPort, len(outs))
	for i, h := range outs {
		outPorts[i] = h
	}

	result, err := Discover(ctx, inPorts, outPorts, opts)
	if err != nil {
		closeAllInputs()
		closeAllOutputs()
		return nil, nil, catalog.Descriptor{}, err
	}

	chosenIn := result.Input.(*midiport.InputHandle)
	chosenOut := result.Output.(*midiport.OutputHandle)
	for _, h := range ins {
		if h != chosenIn {
			_ = h.Close()
		}
	}
	for _, h := range outs {
		if h != chosenOut {
			_ = h.Close()
		}
	}
	return chosenIn, chosenOut, result.Descriptor, nil
}
