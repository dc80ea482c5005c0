package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tartampluch/birthday-feed/internal/cache"
	"github.com/tartampluch/birthday-feed/internal/config"
	"github.com/tartampluch/birthday-feed/internal/engine"
	"github.com/tartampluch/birthday-feed/internal/feed"
	"github.com/tartampluch/birthday-feed/internal/fetch"
	"github.com/tartampluch/birthday-feed/internal/i18n"
	"github.com/tartampluch/birthday-feed/internal/metrics"
	"github.com/tartampluch/birthday-feed/internal/server"
)

// main delegates to runMain so deferred calls execute before the process
// terminates; os.Exit() does not run defers.
func main() {
	os.Exit(runMain())
}

// runMain manages the process lifecycle, argument parsing, and exit codes.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.DescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.DescDebug)

	port := flag.String(config.FlagPort, config.DefaultPort, config.DescPort)
	sourceMode := flag.String(config.FlagSourceMode, config.SourceModeWeb, config.DescSourceMode)
	sourcePath := flag.String(config.FlagSourcePath, "", config.DescSourcePath)
	sourceURL := flag.String(config.FlagSourceURL, "", config.DescSourceURL)
	sourceUser := flag.String(config.FlagSourceUser, "", config.DescSourceUser)
	cardDAV := flag.Bool(config.FlagCardDAV, false, config.DescCardDAV)
	lang := flag.String(config.FlagLanguage, config.DefaultLanguage, config.DescLanguage)
	cacheTTL := flag.Int(config.FlagCacheTTL, config.DefaultCacheTTL, config.DescCacheTTL)
	remEnabled := flag.Bool(config.FlagRemEnabled, false, config.DescRemEnabled)
	remValue := flag.Int(config.FlagRemValue, config.DefaultReminderValue, config.DescRemValue)
	remUnit := flag.String(config.FlagRemUnit, config.UnitDays, config.DescRemUnit)
	remDir := flag.String(config.FlagRemDir, config.DirBefore, config.DescRemDir)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	setupLogging(*debugMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	req := feed.Request{
		Source: fetch.Source{
			Mode:         *sourceMode,
			Path:         *sourcePath,
			URL:          *sourceURL,
			Username:     *sourceUser,
			Password:     os.Getenv(config.EnvSourcePass),
			CardDAVQuery: *cardDAV,
		},
		Language: *lang,
		Reminder: engine.ReminderConfig{
			Enabled:   *remEnabled,
			Value:     *remValue,
			Unit:      *remUnit,
			Direction: *remDir,
		},
		CacheTTL: time.Duration(*cacheTTL) * time.Second,
	}

	if err := run(ctx, *port, req); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the dependencies and blocks on the HTTP server.
func run(ctx context.Context, port string, req feed.Request) error {
	catalog, err := i18n.NewCatalog()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	svc := &feed.Service{
		Fetcher: fetch.NewHTTPFetcher(),
		Cache:   cache.NewMemory[feed.Entry](),
		Clock:   engine.RealClock{},
		Catalog: catalog,
		Metrics: collector,
	}

	srv := &server.Server{
		Port:    port,
		Service: svc,
		Request: req,
		Metrics: metrics.Handler(registry),
		Status:  collector,
	}
	return srv.Start(ctx)
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOut,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger to write JSON to stdout.
// A service leaves log persistence to whatever supervises it.
func setupLogging(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
}
