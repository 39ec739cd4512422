package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/spendscan/internal/api/handlers"
	"github.com/dvloznov/spendscan/internal/api/middleware"
	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/document"
	"github.com/dvloznov/spendscan/internal/gcsstore"
	"github.com/dvloznov/spendscan/internal/ingest"
	"github.com/dvloznov/spendscan/internal/jobs"
	"github.com/dvloznov/spendscan/internal/jobs/inmemory"
	"github.com/dvloznov/spendscan/internal/logger"
	"github.com/dvloznov/spendscan/internal/reconcile"
	"github.com/dvloznov/spendscan/internal/sms"
	"github.com/dvloznov/spendscan/internal/statement"
	"github.com/dvloznov/spendscan/internal/store"
	sbq "github.com/dvloznov/spendscan/internal/store/bigquery"
	"github.com/dvloznov/spendscan/internal/store/memory"
)

func main() {
	var (
		port       = flag.String("port", "8080", "HTTP server port")
		project    = flag.String("project", os.Getenv("SPENDSCAN_PROJECT"), "BigQuery project (empty: in-memory stores)")
		dataset    = flag.String("dataset", os.Getenv("SPENDSCAN_DATASET"), "BigQuery dataset")
		categories = flag.String("categories", "", "Path to category taxonomy YAML")
		bankFile   = flag.String("banks", "", "Path to bank alias YAML")
	)
	flag.Parse()

	log := logger.New()
	ctx := context.Background()

	taxonomy := category.Default()
	if *categories != "" {
		loaded, err := category.LoadFile(*categories)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load categories")
		}
		taxonomy = loaded
	}

	var aliases []sms.BankAliases
	if *bankFile != "" {
		loaded, err := sms.LoadBanksFile(*bankFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load bank aliases")
		}
		aliases = loaded
	}

	// Stores: BigQuery when configured, in-memory otherwise.
	var (
		txStore   store.TransactionStore
		cardStore store.CardStore
	)
	if *project != "" {
		bqStore, err := sbq.NewStore(ctx, *project, *dataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery store")
		}
		defer bqStore.Close()
		txStore = bqStore
		cardStore = store.NewCardCache(bqStore, store.DefaultCardCacheSize)
	} else {
		log.Warn().Msg("No BigQuery project configured - using in-memory stores")
		memStore := memory.NewStore()
		txStore = memStore
		cardStore = memStore
	}

	// Job infrastructure for deferred reconciliation.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore, log)

	matcher := reconcile.NewMatcher(txStore, jobQueue, log)
	retryMatcher := reconcile.NewMatcher(txStore, nil, log)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Deferred groups retry without re-publishing; the queue's own retry
	// budget bounds the attempts.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		reconcileJob, ok := job.(*jobs.ReconcileJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		report, err := retryMatcher.Reconcile(ctx, reconcileJob.Merchant, reconcileJob.Items)
		if err != nil {
			return err
		}
		if report.GroupsMatched == 0 {
			return fmt.Errorf("order group %s still unmatched", reconcileJob.OrderID)
		}

		log.Info().
			Str("job_id", reconcileJob.JobID).
			Str("order_id", reconcileJob.OrderID).
			Int("items", report.ItemsInserted).
			Msg("Deferred reconciliation succeeded")
		return nil
	}

	go func() {
		log.Info().Msg("Starting reconcile job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	pipeline := ingest.NewStatementPipeline(
		gcsstore.NewClient(),
		document.NewPdftotextReader(),
		statement.DefaultRegistry(taxonomy),
		cardStore,
		txStore,
		log,
	)

	messagesHandler := handlers.NewMessagesHandler(sms.NewExtractor(taxonomy, aliases), txStore, log)
	statementsHandler := handlers.NewStatementsHandler(pipeline, log)
	reconcileHandler := handlers.NewReconcileHandler(matcher, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			messagesHandler.ScanMessages(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.IngestStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reconcile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			reconcileHandler.ReconcileOrders(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
