// Package main provides the batch pipeline entry point.
// Executes: sanity checks → fact building → aggregation → scoring → reporting
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"order-momentum-lab/internal/config"
	"order-momentum-lab/internal/ingestion"
	"order-momentum-lab/internal/observability"
	"order-momentum-lab/internal/orchestrator"
	"order-momentum-lab/internal/pipeline"
	"order-momentum-lab/internal/storage"
	chstore "order-momentum-lab/internal/storage/clickhouse"
	"order-momentum-lab/internal/storage/memory"
	"order-momentum-lab/internal/storage/migrations"
	pgstore "order-momentum-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML configuration file (flags override it)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	outputDir := flag.String("output-dir", "", "Output directory for run artifacts")
	useFixtures := flag.Bool("use-fixtures", false, "Run in memory over the bundled sample dataset")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Load configuration, flags override file values
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN != "" {
		cfg.Postgres.DSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickHouse.DSN = *clickhouseDSN
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *logLevel != "" {
		cfg.Logging = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel())

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling pipeline...", sig)
		cancel()
	}()

	if err := runPipeline(ctx, logger, cfg, *useFixtures); err != nil {
		if errors.Is(err, orchestrator.ErrSanityFailed) {
			logger.Error("Dataset failed sanity checks, see the data quality section of the report")
			os.Exit(1)
		}
		logger.Fatalf("Error: %v", err)
	}
}

// loadConfig reads the config file when one is given, defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// runPipeline executes the full batch run and writes its artifacts.
// On ErrSanityFailed the report is still written, documenting the failed
// checks where charts are otherwise expected.
func runPipeline(ctx context.Context, logger *logrus.Logger, cfg *config.Config, useFixtures bool) error {
	// Create stores (use interfaces)
	var orderStore storage.OrderStore = memory.NewOrderStore()
	var lineItemStore storage.LineItemStore = memory.NewLineItemStore()
	var metricStore storage.OrderMetricStore = memory.NewOrderMetricStore()
	var aggregateStore storage.SegmentAggregateStore = memory.NewSegmentAggregateStore()
	var scoreStore storage.MomentumScoreStore = memory.NewMomentumScoreStore()
	var contextStore storage.BehavioralContextStore = memory.NewBehavioralContextStore()

	if useFixtures {
		loader := ingestion.NewLoader(ingestion.LoaderOptions{
			OrderStore:    orderStore,
			LineItemStore: lineItemStore,
			Logger:        logger,
		})
		if _, err := loader.LoadFixtures(ctx); err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
	} else {
		if cfg.Postgres.DSN == "" {
			return config.ErrPostgresDSNRequired
		}
		if cfg.ClickHouse.DSN == "" {
			return config.ErrClickHouseDSNRequired
		}

		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		orderStore = pgstore.NewOrderStore(pool)
		lineItemStore = pgstore.NewLineItemStore(pool)
		metricStore = chstore.NewOrderMetricStore(conn)
		aggregateStore = chstore.NewSegmentAggregateStore(conn)
		scoreStore = chstore.NewMomentumScoreStore(conn)
		contextStore = chstore.NewBehavioralContextStore(conn)
	}

	orch := orchestrator.New(orchestrator.Options{
		OrderStore:     orderStore,
		LineItemStore:  lineItemStore,
		MetricStore:    metricStore,
		AggregateStore: aggregateStore,
		ScoreStore:     scoreStore,
		ContextStore:   contextStore,
		Logger:         logger,
	})

	result, runErr := orch.Run(ctx)
	if runErr != nil && !errors.Is(runErr, orchestrator.ErrSanityFailed) {
		return runErr
	}

	p := pipeline.NewReportPipeline(
		orderStore,
		lineItemStore,
		metricStore,
		aggregateStore,
		scoreStore,
		contextStore,
		cfg.Output.Dir,
	).WithRunID(result.RunID).WithSanityResult(result.Sanity)
	if useFixtures {
		p = p.WithDataSource("fixtures")
	} else {
		p = p.WithDBSource(cfg.Postgres.DSN, cfg.ClickHouse.DSN)
	}

	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Printf("Run artifacts written to %s", cfg.Output.Dir)
	return runErr
}
