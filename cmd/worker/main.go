package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/spendscan/internal/jobs"
	"github.com/dvloznov/spendscan/internal/jobs/inmemory"
	"github.com/dvloznov/spendscan/internal/logger"
	"github.com/dvloznov/spendscan/internal/reconcile"
	"github.com/dvloznov/spendscan/internal/store"
	sbq "github.com/dvloznov/spendscan/internal/store/bigquery"
	"github.com/dvloznov/spendscan/internal/store/memory"
)

func main() {
	var (
		project = flag.String("project", os.Getenv("SPENDSCAN_PROJECT"), "BigQuery project (empty: in-memory store)")
		dataset = flag.String("dataset", os.Getenv("SPENDSCAN_DATASET"), "BigQuery dataset")
		workers = flag.Int("workers", 2, "Concurrent reconcile workers")
	)
	flag.Parse()

	log := logger.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var txStore store.TransactionStore
	if *project != "" {
		bqStore, err := sbq.NewStore(ctx, *project, *dataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery store")
		}
		defer bqStore.Close()
		txStore = bqStore
	} else {
		log.Warn().Msg("No BigQuery project configured - using in-memory store")
		txStore = memory.NewStore()
	}

	// In production this would be replaced with Cloud Tasks or Pub/Sub.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore, log)

	matcher := reconcile.NewMatcher(txStore, nil, log)

	log.Info().Msg("Starting worker service")

	handler := func(ctx context.Context, job jobs.Job) error {
		reconcileJob, ok := job.(*jobs.ReconcileJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", reconcileJob.JobID).
			Str("order_id", reconcileJob.OrderID).
			Str("merchant", reconcileJob.Merchant).
			Msg("Processing reconcile job")

		report, err := matcher.Reconcile(ctx, reconcileJob.Merchant, reconcileJob.Items)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", reconcileJob.JobID).
				Str("order_id", reconcileJob.OrderID).
				Msg("Reconciliation failed")
			return err
		}
		if report.GroupsMatched == 0 {
			return fmt.Errorf("order group %s still unmatched", reconcileJob.OrderID)
		}

		log.Info().
			Str("job_id", reconcileJob.JobID).
			Str("order_id", reconcileJob.OrderID).
			Int("items", report.ItemsInserted).
			Msg("Reconcile job completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}
