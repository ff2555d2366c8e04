// Package main implements chesslog: an interactive over-the-board game
// recorder, its local history API server and database admin commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"chesslog/cmd/chesslog/cli"
	"chesslog/internal/catalog"
	"chesslog/internal/config"
	"chesslog/internal/history"
	"chesslog/internal/limbo"
	"chesslog/internal/logger"
	"chesslog/internal/recorder"
	"chesslog/internal/replay"
	"chesslog/internal/rules"
	"chesslog/internal/storage"
)

const gracefulShutdownTimeout = 5 * time.Second

// app holds the components shared by the client and the server
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *storage.Store
	history   *history.Store
	limbo     *limbo.Registry
	catalog   *catalog.Catalog
	recorder  *recorder.Recorder
	navigator *replay.Navigator
	factory   rules.Factory
}

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		configPath = flag.String("config", "", "Path to config file (default ./chesslog.yaml if present)")
		dbPath     = flag.String("db", "", "Override storage path")
		theme      = flag.String("theme", "", "Board theme: off, brown, green, gray")
		dev        = flag.Bool("dev", false, "Development mode (debug logs, relaxed rate limits)")
		pidPath    = flag.String("pid", "", "Optional path to write PID file (serve only)")
		pidLock    = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [serve]\n       %s db <init|delete|list|query> -path <file>\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *theme != "" {
		cfg.Display.Theme = *theme
	}
	if *dev {
		cfg.Storage.Dev, cfg.HTTP.Dev = true, true
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log, *dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	mode := "client"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	if *pidLock && *pidPath == "" {
		log.Fatal("-pid-lock flag requires the -pid flag to be set")
	}

	a, err := newApp(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize", zap.Error(err))
	}

	err = run(a, mode, *pidPath, *pidLock)
	a.close()
	if err != nil {
		log.Error("exited with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

// run dispatches to the client or the server. Errors are returned so the
// caller can close storage before exiting.
func run(a *app, mode, pidPath string, pidLock bool) error {
	switch mode {
	case "client":
		return runClient(a)
	case "serve":
		if pidPath != "" {
			cleanup, err := managePIDFile(pidPath, pidLock)
			if err != nil {
				return fmt.Errorf("manage PID file: %w", err)
			}
			defer cleanup()
			a.log.Info("PID file created", zap.String("path", pidPath), zap.Bool("lock", pidLock))
		}
		return runServer(a)
	default:
		flag.Usage()
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	store, err := storage.NewStore(cfg.Storage.Path, cfg.Storage.Dev, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := store.InitDB(); err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	log.Info("storage ready", zap.String("path", store.Path()))

	factory := rules.Factory(rules.DefaultFactory)
	hist := history.New(store, cfg.History.MaxGames, log)
	registry := limbo.NewRegistry(log)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		history: hist,
		limbo:   registry,
		catalog: catalog.New(hist, factory, registry, cfg.History.UndoTimeout, log),
		recorder: recorder.New(hist, factory, recorder.Config{
			DefaultWhite:   cfg.Players.DefaultWhite,
			DefaultBlack:   cfg.Players.DefaultBlack,
			DownloadPrefix: cfg.History.DownloadPrefix,
		}, log),
		navigator: replay.NewNavigator(factory, log),
		factory:   factory,
	}, nil
}

func (a *app) close() {
	if err := a.limbo.Shutdown(gracefulShutdownTimeout); err != nil {
		a.log.Warn("limbo shutdown", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close storage cleanly", zap.Error(err))
	}
}
