// Package env wires the focus and layering components for one document.
//
// Nothing in tabstop is process-global: each Environment owns its inert
// guard, layer stack, outside-click coordinator and focus history, so
// independent documents (and tests) never share state.
package env

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/odvcencio/tabstop/pkg/config"
	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/focus"
	"github.com/odvcencio/tabstop/pkg/ui/inert"
	"github.com/odvcencio/tabstop/pkg/ui/layer"
	"github.com/odvcencio/tabstop/pkg/ui/listnav"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Options configures New. Every field is optional.
type Options struct {
	// Config defaults to config.DefaultConfig().
	Config *config.Config
	// Logger overrides the logger built from Config.Logging.
	Logger *logging.Logger
	// LogOutput is where the built logger writes. Nil means stderr.
	LogOutput io.Writer
	// Registerer receives the collectors when metrics are enabled. Nil
	// keeps them unregistered.
	Registerer prometheus.Registerer
	// Scheduler drives type-ahead timeouts. Nil uses timers.
	Scheduler listnav.Scheduler
}

// Environment is the per-document focus runtime.
type Environment struct {
	Doc         *tree.Document
	Config      *config.Config
	Logger      *logging.Logger
	Metrics     *telemetry.Metrics
	Guard       *inert.Guard
	Stack       *layer.Stack
	Coordinator *layer.Coordinator
	History     *focus.History

	features   focus.Features
	registerer prometheus.Registerer
	scheduler  listnav.Scheduler

	traps      []*focus.Trap
	typeAheads []*listnav.TypeAhead
	closers    []closer
	nextCloser int
	closed     bool
}

type closer struct {
	id int
	fn func()
}

// New builds an environment for doc. It fails when doc is nil or the
// configuration is invalid.
func New(doc *tree.Document, opts Options) (*Environment, error) {
	if doc == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoDocument, "environment requires a document")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	features, err := focus.ParseFeatures(cfg.Focus.TrapFeatures)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New("tabstop", logging.ParseLevel(cfg.Logging.Level), opts.LogOutput)
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics, err = telemetry.NewMetrics(cfg.Metrics.Namespace, opts.Registerer)
		if err != nil {
			return nil, tserrors.Wrap(err, tserrors.ErrCodeInternal, "registering metrics").
				WithContext("namespace", cfg.Metrics.Namespace)
		}
	}

	stack := layer.NewStack(logger.Component("layer"), metrics)
	return &Environment{
		Doc:         doc,
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics,
		Guard:       inert.NewGuard(metrics),
		Stack:       stack,
		Coordinator: layer.NewCoordinator(doc, stack, logger.Component("outside"), metrics),
		History:     focus.NewHistory(doc, cfg.Focus.HistorySize),
		features:    features,
		registerer:  opts.Registerer,
		scheduler:   opts.Scheduler,
	}, nil
}

// TrapFeatures returns the configured default trap features.
func (e *Environment) TrapFeatures() focus.Features { return e.features }

// NewTrap creates a trap bound to this environment. History, Logger and
// Metrics default to the environment's own. Traps not handed back through
// ReleaseTrap are deactivated at Close.
func (e *Environment) NewTrap(opts focus.TrapOptions) (*focus.Trap, error) {
	if opts.History == nil {
		opts.History = e.History
	}
	if opts.Logger == nil {
		opts.Logger = e.Logger.Component("trap")
	}
	if opts.Metrics == nil {
		opts.Metrics = e.Metrics
	}
	t, err := focus.NewTrap(e.Doc, opts)
	if err != nil {
		return nil, err
	}
	e.traps = append(e.traps, t)
	return t, nil
}

// ReleaseTrap deactivates t and forgets it.
func (e *Environment) ReleaseTrap(t *focus.Trap) {
	if t == nil {
		return
	}
	t.Deactivate()
	for i, cur := range e.traps {
		if cur == t {
			e.traps = append(e.traps[:i], e.traps[i+1:]...)
			return
		}
	}
}

// NewTypeAhead creates a type-ahead buffer with the configured timeout. It
// is disposed at Close.
func (e *Environment) NewTypeAhead() *listnav.TypeAhead {
	ta := listnav.NewTypeAhead(e.Config.TypeAhead.Timeout, e.scheduler)
	e.typeAheads = append(e.typeAheads, ta)
	return ta
}

// Track registers a teardown to run at Close, newest first. The returned
// function forgets it again, for owners that tore down on their own.
func (e *Environment) Track(fn func()) (untrack func()) {
	e.nextCloser++
	id := e.nextCloser
	e.closers = append(e.closers, closer{id: id, fn: fn})
	return func() {
		for i, c := range e.closers {
			if c.id == id {
				e.closers = append(e.closers[:i], e.closers[i+1:]...)
				return
			}
		}
	}
}

// Held returns the number of tracked teardowns and unreleased traps.
func (e *Environment) Held() int { return len(e.closers) + len(e.traps) }

// Closed reports whether Close ran.
func (e *Environment) Closed() bool { return e.closed }

// Close tears everything down: tracked owners newest first, then traps,
// type-ahead buffers, outside-click registrations, layers and history. It
// is idempotent.
func (e *Environment) Close() {
	if e.closed {
		return
	}
	e.closed = true

	// Closers may untrack themselves or others while running.
	for len(e.closers) > 0 {
		c := e.closers[len(e.closers)-1]
		e.closers = e.closers[:len(e.closers)-1]
		c.fn()
	}

	for i := len(e.traps) - 1; i >= 0; i-- {
		e.traps[i].Deactivate()
	}
	e.traps = nil
	for _, ta := range e.typeAheads {
		ta.Dispose()
	}
	e.typeAheads = nil

	e.Coordinator.Close()
	e.Stack.Reset()
	e.History.Close()
	e.Metrics.Unregister(e.registerer)
	e.Logger.Debug("environment closed")
}
