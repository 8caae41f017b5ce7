package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/debtidy/debtidy/internal/config"
	"github.com/debtidy/debtidy/internal/fixers"
	"github.com/debtidy/debtidy/internal/metrics"
	"github.com/debtidy/debtidy/internal/version"
	"github.com/debtidy/debtidy/internal/watch"
)

var CLI struct {
	Config    string `short:"c" help:"Configuration file path" default:"debtidy.yaml"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	Directory string `short:"d" help:"Package tree to operate on" default:"."`

	Lint struct {
		Fixers  []string `short:"f" help:"Run only the named fixers"`
		Exclude []string `short:"x" help:"Skip the named fixers"`
	} `cmd:"" help:"Report what the fixers would change without touching the tree"`

	Fix struct {
		Fixers  []string `short:"f" help:"Run only the named fixers"`
		Exclude []string `short:"x" help:"Skip the named fixers"`
	} `cmd:"" help:"Apply the fixers to the package tree"`

	Watch struct{} `cmd:"" help:"Rerun the fixers whenever debian/ changes"`

	Version struct{} `cmd:"" help:"Print the debtidy version"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "lint":
		cfg := loadConfig()
		rr := runOnce(cfg, CLI.Lint.Fixers, CLI.Lint.Exclude, true)
		fmt.Print(rr.Summary())
		if rr.HasErrors() || len(rr.Applied) > 0 {
			os.Exit(1)
		}
	case "fix":
		cfg := loadConfig()
		rr := runOnce(cfg, CLI.Fix.Fixers, CLI.Fix.Exclude, false)
		fmt.Print(rr.Summary())
		if rr.HasErrors() {
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(loadConfig()); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("debtidy %s (built %s)\n", version.String(), version.BuildTime)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func newTree(cfg *config.Config) *fixers.Tree {
	return fixers.NewTree(CLI.Directory, cfg.OverridePaths...)
}

// selection merges command line flags with the configuration; flags win.
func selection(cfg *config.Config, only, exclude []string) (o, x []string) {
	if len(only) == 0 {
		only = cfg.Fixers
	}
	if len(exclude) == 0 {
		exclude = cfg.Exclude
	}
	return only, exclude
}

func runOnce(cfg *config.Config, only, exclude []string, dryRun bool) *fixers.RunResult {
	only, exclude = selection(cfg, only, exclude)
	runner := fixers.NewRunner(fixers.Default(), nil, dryRun)
	rr, err := runner.Run(context.Background(), newTree(cfg), only, exclude)
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
	return rr
}

func runWatch(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
		slog.Info("Serving metrics", "listen", cfg.Metrics.Listen)
	}

	only, exclude := selection(cfg, nil, nil)
	runner := fixers.NewRunner(fixers.Default(), recorder, false)
	tree := newTree(cfg)

	run := func(ctx context.Context) error {
		rr, err := runner.Run(ctx, tree, only, exclude)
		if err != nil {
			return err
		}
		if len(rr.Applied) > 0 || rr.HasErrors() {
			fmt.Print(rr.Summary())
		}
		return nil
	}

	// One pass up front so a dirty tree is fixed without waiting for an
	// event.
	if err := run(ctx); err != nil {
		return err
	}

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}
	watcher, err := watch.New(CLI.Directory, debounce, run)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}
