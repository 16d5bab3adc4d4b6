// Command tabstop-demo runs the focus and layering demo in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/tabstop/pkg/config"
	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/ui/backend/tcell"
	"github.com/odvcencio/tabstop/pkg/ui/demo"
	"github.com/odvcencio/tabstop/pkg/ui/env"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	configPath  string
	logPath     string
	metricsAddr string
	version     bool
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("tabstop-demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (default ./.tabstop/config.yaml)")
	fs.StringVar(&opts.logPath, "log", "", "write JSON logs to this file; logs are discarded otherwise")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, withExitCode(err, 2)
	}
	if fs.NArg() > 0 {
		return nil, withExitCode(fmt.Errorf("unexpected arguments: %v", fs.Args()), 2)
	}
	return opts, nil
}

func main() {
	os.Exit(exitCodeForError(run(os.Args[1:])))
}

func run(args []string) error {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if opts.version {
		fmt.Printf("tabstop-demo %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return withExitCode(err, exitCodeConfig)
	}

	logger, closeLog, err := openLogger(cfg, opts.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer closeLog()

	if !isInteractiveTerminal() {
		err := errors.New("tabstop-demo needs an interactive terminal")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return withExitCode(err, 2)
	}

	screen, err := tcell.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return err
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return err
	}
	defer screen.Fini()

	registry := prometheus.NewRegistry()
	e, err := env.New(tree.NewDocument(), env.Options{Config: cfg, Logger: logger, Registerer: registry})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(gctx)
	defer cancelRun()

	if opts.metricsAddr != "" {
		srv := metricsServer(opts.metricsAddr, registry)
		g.Go(func() error {
			logger.Info("serving metrics", "addr", opts.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return tserrors.Wrap(err, tserrors.ErrCodeInternal, "metrics server").
					WithContext("addr", opts.metricsAddr)
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	app := demo.New(e, screen)
	g.Go(func() error {
		defer cancelRun()
		logger.Info("demo started", "version", version)
		if err := app.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("demo stopped", "error", err)
		return err
	}
	logger.Info("demo finished")
	return nil
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// openLogger returns a JSON logger writing to path, or a discarding logger
// when path is empty; the screen owns stderr while the demo runs.
func openLogger(cfg *config.Config, path string) (*logging.Logger, func(), error) {
	if path == "" {
		return logging.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, tserrors.Wrap(err, tserrors.ErrCodeInvalidInput, "opening log file").
			WithContext("path", path)
	}
	logger := logging.New("tabstop-demo", logging.ParseLevel(cfg.Logging.Level), f)
	return logger, func() { _ = f.Close() }, nil
}

func metricsServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
