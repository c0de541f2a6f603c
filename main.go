// Command podctl parses flags and persisted preferences, opens or
// discovers the MIDI port pair, builds the controller store and
// mediator, attaches the CLI observer, and runs until a signal asks it
// to stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/gopher-pod/podctl/internal/appconfig"
	"github.com/gopher-pod/podctl/internal/catalog"
	"github.com/gopher-pod/podctl/internal/discovery"
	"github.com/gopher-pod/podctl/internal/mediator"
	"github.com/gopher-pod/podctl/internal/midiport"
	"github.com/gopher-pod/podctl/internal/obs"
	"github.com/gopher-pod/podctl/internal/store"
	"github.com/gopher-pod/podctl/internal/wire"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("podctl", "err", err)
	}
}

func run() error {
	base, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, save, err := appconfig.Parse(base, os.Args[1:])
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inHandle, outHandle, descriptor, err := openPorts(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open ports: %w", err)
	}
	defer inHandle.Close()
	defer outHandle.Close()

	if save {
		cfg.InSelector = inHandle.Name()
		cfg.OutSelector = outHandle.Name()
		if err := cfg.Save(); err != nil {
			logger.Warn("podctl: failed to persist config", "err", err)
		}
	}

	logger.Info("podctl: connected", "device", descriptor.Name, "in", inHandle.Name(), "out", outHandle.Name(), "channel", cfg.Channel)

	st := store.New(descriptor, logger)
	defer st.Close()

	dispatcher := obs.NewDispatcher()
	dispatcher.Register("", obs.NewReporter(logger))

	codec := wire.NewCodec(descriptor.PodID, descriptor.ProgramSize)
	med := mediator.New(st, inHandle, outHandle, codec, cfg.Channel, logger, rulesFor(descriptor))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return med.Run(gctx) })
	g.Go(func() error { return dispatcher.Run(gctx, st) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// rulesFor returns the virtual-controls rules engine for descriptor. The
// catalog currently carries one fully populated entry; additional
// descriptors would register their own rule sets here keyed by name.
func rulesFor(d catalog.Descriptor) []mediator.Rule {
	switch d.Name {
	case "POD 2.0":
		return mediator.Pod20Rules()
	default:
		return nil
	}
}

// openPorts honors explicit --in/--out selectors when given, and falls
// back to discovery otherwise.
func openPorts(ctx context.Context, cfg appconfig.Config, logger *log.Logger) (*midiport.InputHandle, *midiport.OutputHandle, catalog.Descriptor, error) {
	if cfg.InSelector == "" || cfg.OutSelector == "" {
		logger.Info("podctl: running discovery", "settle", cfg.Settle)
		return discovery.DiscoverAuto(ctx, discovery.Options{Settle: cfg.Settle, Logger: logger})
	}

	in, err := midiport.OpenInput(cfg.InSelector)
	if err != nil {
		return nil, nil, catalog.Descriptor{}, err
	}
	out, err := midiport.OpenOutput(cfg.OutSelector)
	if err != nil {
		_ = in.Close()
		return nil, nil, catalog.Descriptor{}, err
	}

	result, err := discovery.Identify(ctx, in, out, discovery.Options{Settle: cfg.Settle, Logger: logger})
	if err != nil {
		_ = in.Close()
		_ = out.Close()
		return nil, nil, catalog.Descriptor{}, err
	}
	return in, out, result.Descriptor, nil
}
