package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lazyrest/lazyrest/config"
	"github.com/lazyrest/lazyrest/metadata"
	"github.com/lazyrest/lazyrest/router"
	"github.com/lazyrest/lazyrest/server"
	"github.com/lazyrest/lazyrest/store"
	"github.com/lazyrest/lazyrest/store/memstore"
	"github.com/lazyrest/lazyrest/store/pgstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo blog API",
	Long: `Define the demo blog models, register their derived endpoints on a
router, and serve them over HTTP. Uses an in-memory store unless a
database URL is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := buildLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()
		metadata.SetLogger(logger)

		querysets, cleanup, err := buildQuerysets(cfg, logger)
		if err != nil {
			return err
		}

		if err := defineBlog(querysets); err != nil {
			return err
		}

		r := router.New()
		if err := metadata.RegisterGroup(demoGroup, r); err != nil {
			return err
		}

		serverCfg := server.DefaultConfig(r)
		serverCfg.Address = cfg.Address()
		srv, err := server.New(serverCfg)
		if err != nil {
			return err
		}

		shutdownCfg := server.DefaultShutdownConfig()
		shutdownCfg.Logger = zap.NewStdLog(logger)
		gs := server.NewGracefulShutdown(srv, shutdownCfg)
		if cleanup != nil {
			gs.RegisterHook(cleanup)
		}
		return gs.Start()
	},
}

// buildLogger creates a production zap logger at the configured level.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level %q: %w", level, err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

// buildQuerysets resolves the storage backend. A configured database URL
// selects postgres; otherwise every table gets a seeded in-memory store.
// The returned hook, when non-nil, releases the backend at shutdown.
func buildQuerysets(cfg *config.Config, logger *zap.Logger) (querysetFunc, server.ShutdownHook, error) {
	url := cfg.DatabaseURL()
	if url == "" {
		logger.Info("no database configured, using in-memory store")
		return seedMemoryStores(), nil, nil
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("using postgres store")

	factory := func(table string, columns []string) store.Queryable {
		return pgstore.New(db, table, columns).Query()
	}
	cleanup := func(ctx context.Context) error {
		return db.Close()
	}
	return factory, cleanup, nil
}

// seedMemoryStores creates one in-memory store per demo table with a few
// records so the endpoints answer with data out of the box.
func seedMemoryStores() querysetFunc {
	authors := memstore.New()
	authors.Seed(
		store.Record{"id": "a1", "name": "Ada Lovelace", "email": "ada@example.com"},
		store.Record{"id": "a2", "name": "Alan Turing", "email": "alan@example.com"},
	)

	posts := memstore.New()
	posts.Seed(
		store.Record{
			"id": "p1", "title": "Notes on the Analytical Engine",
			"body":      "The engine weaves algebraic patterns just as the loom weaves flowers and leaves.",
			"author_id": "a1", "published": true, "created_at": "2026-01-12T09:30:00Z",
		},
		store.Record{
			"id": "p2", "title": "On Computable Numbers",
			"body":      "A machine supplied with a tape divided into squares, each capable of bearing a symbol.",
			"author_id": "a2", "published": true, "created_at": "2026-02-03T14:00:00Z",
		},
		store.Record{
			"id": "p3", "title": "Untitled draft",
			"body":      "Work in progress.",
			"author_id": "a2", "published": false, "created_at": "2026-02-20T08:15:00Z",
		},
	)

	stores := map[string]*memstore.Store{
		"authors": authors,
		"posts":   posts,
	}
	return func(table string, columns []string) store.Queryable {
		s, ok := stores[table]
		if !ok {
			s = memstore.New()
			stores[table] = s
		}
		return s.Query()
	}
}
