package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/internal/config"
	"github.com/matzehuels/lineplanner/internal/server"
	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/palette"
	"github.com/matzehuels/lineplanner/pkg/snapshot"
	"github.com/matzehuels/lineplanner/pkg/storage"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string // TOML config file path
	addr       string // listen address override
	backend    string // storage backend override
}

// newServeCmd creates the serve command running the planning API.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./Config.toml)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.backend, "storage", "", "storage backend: memory, file, redis, mongo (overrides config)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	path := opts.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}

	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing storage", "error", err)
		}
	}()
	logger.Info("storage ready", "backend", cfg.Storage.Backend)

	gen := palette.New()
	net := network.New(gen.Next)

	if cfg.Storage.RestoreLatest {
		if err := restoreLatest(ctx, net, store); err != nil {
			return err
		}
	}

	srv := server.New(net,
		server.WithLogger(logger),
		server.WithStorage(store),
		server.WithCORSOrigins(cfg.Server.CORSOrigins),
	)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// openStorage builds the configured snapshot backend, wrapped with
// instrumentation so registered hooks see every save and load.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	var (
		inner storage.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		inner = storage.NewMemoryStore()
	case config.BackendFile:
		inner, err = storage.NewFileStore(cfg.File.Dir)
	case config.BackendRedis:
		sp := newSpinnerWithContext(ctx, "Connecting to redis...")
		sp.Start()
		inner, err = storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		sp.Stop()
	case config.BackendMongo:
		sp := newSpinnerWithContext(ctx, "Connecting to mongodb...")
		sp.Start()
		inner, err = storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		sp.Stop()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return storage.NewInstrumented(inner, cfg.Backend), nil
}

// restoreLatest loads the newest stored snapshot into the network.
// An empty backend is not an error; the server starts with a blank network.
func restoreLatest(ctx context.Context, net *network.Store, store storage.Store) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	rec, err := store.Latest(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("no saved snapshot, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}
	if err := snapshot.Restore(net, rec.Snapshot); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", rec.ID, err)
	}
	prog.done(fmt.Sprintf("Restored %d lines and %d stops", net.LineCount(), net.PointCount()))
	return nil
}
