package main

import (
	"context"
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
	"order-momentum-lab/internal/storage"
	"order-momentum-lab/internal/storage/memory"
	"order-momentum-lab/internal/storage/migrations"
	pgstore "order-momentum-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML configuration file (flags override it)")
	dataDir := flag.String("data-dir", "", "Directory holding the five CSV relations")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Load the bundled sample dataset instead of CSV files")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL (validation dry run)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Load configuration, flags override file values
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Dataset.Dir = *dataDir
	}
	if *postgresDSN != "" {
		cfg.Postgres.DSN = *postgresDSN
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
		logger.Printf("Received signal %v, cancelling load...", sig)
		cancel()
	}()

	if err := runIngest(ctx, logger, cfg, *useFixtures, *useMemory); err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Load complete")
}

// loadConfig reads the config file when one is given, defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// runIngest loads the dataset into the configured stores.
func runIngest(ctx context.Context, logger *logrus.Logger, cfg *config.Config, useFixtures, useMemory bool) error {
	// Require --postgres-dsn unless --use-memory is explicitly set
	if !useMemory && cfg.Postgres.DSN == "" {
		return fmt.Errorf("%w (use --use-memory for a validation dry run)", config.ErrPostgresDSNRequired)
	}

	// Create stores (use interfaces)
	var orderStore storage.OrderStore = memory.NewOrderStore()
	var lineItemStore storage.LineItemStore = memory.NewLineItemStore()
	var productStore storage.ProductStore = memory.NewProductStore()
	var aisleStore storage.AisleStore = memory.NewAisleStore()
	var departmentStore storage.DepartmentStore = memory.NewDepartmentStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		orderStore = pgstore.NewOrderStore(pool)
		lineItemStore = pgstore.NewLineItemStore(pool)
		productStore = pgstore.NewProductStore(pool)
		aisleStore = pgstore.NewAisleStore(pool)
		departmentStore = pgstore.NewDepartmentStore(pool)
	}

	loader := ingestion.NewLoader(ingestion.LoaderOptions{
		OrderStore:      orderStore,
		LineItemStore:   lineItemStore,
		ProductStore:    productStore,
		AisleStore:      aisleStore,
		DepartmentStore: departmentStore,
		Logger:          logger,
	})

	var counts ingestion.DatasetCounts
	var err error
	if useFixtures {
		logger.Println("Loading bundled fixture dataset")
		counts, err = loader.LoadFixtures(ctx)
	} else {
		logger.Printf("Loading dataset from %s", cfg.Dataset.Dir)
		counts, err = loader.LoadDataset(ctx, ingestion.DatasetInDir(cfg.Dataset.Dir))
	}
	if err != nil {
		return err
	}

	logger.Printf("Loaded %d orders, %d line items, %d products, %d aisles, %d departments",
		counts.Orders, counts.LineItems, counts.Products, counts.Aisles, counts.Departments)
	return nil
}
