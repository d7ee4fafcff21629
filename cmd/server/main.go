package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Skufu/diass/internal/analysis"
	"github.com/Skufu/diass/internal/api"
	"github.com/Skufu/diass/internal/config"
	"github.com/Skufu/diass/internal/dataset"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "diass",
		Short:        "Drug interaction analysis and safety service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(drugsCmd())
	root.AddCommand(seedDBCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a request read from a JSON file and print the assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			var in io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open request: %w", err)
				}
				defer f.Close()
				in = f
			}

			var req analysis.Request
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}
			if err := binding.Validator.ValidateStruct(&req); err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			analyzer, cleanup, err := analyzerFromConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := analyzer.Analyze(req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringP("file", "f", "-", "request JSON file, - for stdin")
	return cmd
}

func drugsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drugs [query]",
		Short: "List catalog drugs, optionally filtered by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, cleanup, err := analyzerFromConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			drugs := analyzer.Catalog().All()
			if len(args) == 1 {
				drugs = analyzer.Catalog().Suggest(args[0])
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCLASSES")
			for _, d := range drugs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", d.ID, d.Name, d.BrandName, d.Classes)
			}
			return tw.Flush()
		},
	}
}

func seedDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-db",
		Short: "Create the knowledge base tables and load the embedded data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for seed-db")
			}
			logger := newLogger(cfg)

			ctx := cmd.Context()
			pool, err := connectDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			defer pool.Close()

			ds, err := dataset.Embedded()
			if err != nil {
				return err
			}
			if _, _, err := ds.Build(); err != nil {
				return fmt.Errorf("embedded data set is invalid: %w", err)
			}

			if err := dataset.EnsureSchema(ctx, pool); err != nil {
				return err
			}
			tx, err := pool.Begin(ctx)
			if err != nil {
				return fmt.Errorf("begin: %w", err)
			}
			defer tx.Rollback(ctx)
			if err := dataset.Seed(ctx, tx, ds); err != nil {
				return err
			}
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit: %w", err)
			}

			logger.Info().
				Str("version", ds.Version).
				Int("drugs", len(ds.Drugs)).
				Int("interactions", len(ds.Interactions)).
				Msg("knowledge base seeded")
			return nil
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	gin.SetMode(cfg.GinMode)
	logger := newLogger(cfg)

	var (
		db   api.HealthChecker
		pool *pgxpool.Pool
	)
	if cfg.EnableDB {
		pool, err = connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		db = pool
	}

	analyzer, err := loadAnalyzer(ctx, cfg, pool)
	if err != nil {
		return err
	}
	kb := analyzer.KnowledgeBase()
	logger.Info().
		Str("source", cfg.KBSource).
		Str("version", kb.Version()).
		Int("drugs", analyzer.Catalog().Len()).
		Int("interactions", kb.PairCount()).
		Msg("knowledge base loaded")

	staticRoot := cfg.StaticDir
	if staticRoot == "" {
		staticRoot = api.DetectStaticRoot()
	}
	router, err := api.NewRouter(api.Options{
		Analyzer:         analyzer,
		DB:               db,
		Logger:           logger,
		StaticRoot:       staticRoot,
		CORSOrigins:      cfg.CORSOrigins,
		TrustedProxies:   cfg.TrustedProxies,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		SuggestCacheSize: cfg.SuggestCacheSize,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("server listening")
	return waitForShutdown(server, logger, errCh)
}

// analyzerFromConfig is used by the one-shot commands.
func analyzerFromConfig(ctx context.Context) (*analysis.Analyzer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	var pool *pgxpool.Pool
	cleanup := func() {}
	if cfg.KBSource == config.SourcePostgres {
		pool, err = connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		cleanup = pool.Close
	}
	analyzer, err := loadAnalyzer(ctx, cfg, pool)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return analyzer, cleanup, nil
}

func loadAnalyzer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*analysis.Analyzer, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	switch cfg.KBSource {
	case config.SourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("KB_SOURCE=postgres needs a database connection")
		}
		ds, err = dataset.LoadPostgres(ctx, pool)
	default:
		ds, err = dataset.Embedded()
	}
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return ds.Analyzer()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, logger zerolog.Logger, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logger.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
