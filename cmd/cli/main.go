package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/document"
	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/gcsstore"
	"github.com/dvloznov/spendscan/internal/ingest"
	"github.com/dvloznov/spendscan/internal/logger"
	"github.com/dvloznov/spendscan/internal/orderimport"
	"github.com/dvloznov/spendscan/internal/reconcile"
	"github.com/dvloznov/spendscan/internal/sms"
	"github.com/dvloznov/spendscan/internal/statement"
	"github.com/dvloznov/spendscan/internal/store"
	sbq "github.com/dvloznov/spendscan/internal/store/bigquery"
	"github.com/dvloznov/spendscan/internal/store/memory"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan-sms":
		runScanSMS(log)
	case "ingest":
		runIngest(log)
	case "upload":
		runUpload(log)
	case "reconcile":
		runReconcile(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Spendscan CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  scan-sms   Extract a transaction from an SMS message")
	fmt.Println("  ingest     Parse and ingest a card statement")
	fmt.Println("  upload     Upload a statement PDF to GCS")
	fmt.Println("  reconcile  Match an order history export against stored transactions")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// loadTaxonomy builds the category taxonomy, from a YAML file if given.
func loadTaxonomy(path string, log zerolog.Logger) *category.Taxonomy {
	if path == "" {
		return category.Default()
	}
	taxonomy, err := category.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load categories")
	}
	return taxonomy
}

// openStores returns BigQuery-backed stores when a project is configured and
// in-memory ones otherwise. The cleanup function closes the client if any.
func openStores(ctx context.Context, project, dataset string, log zerolog.Logger) (store.TransactionStore, store.CardStore, func()) {
	if project == "" {
		st := memory.NewStore()
		return st, st, func() {}
	}
	st, err := sbq.NewStore(ctx, project, dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	cards := store.NewCardCache(st, store.DefaultCardCacheSize)
	return st, cards, func() { _ = st.Close() }
}

func runScanSMS(log zerolog.Logger) {
	fs := flag.NewFlagSet("scan-sms", flag.ExitOnError)
	sender := fs.String("sender", "", "SMS sender ID")
	body := fs.String("body", "", "SMS body text")
	at := fs.String("at", "", "Receive time, RFC3339 (defaults to now)")
	categories := fs.String("categories", "", "Path to category taxonomy YAML")
	banks := fs.String("banks", "", "Path to bank alias YAML")
	project := fs.String("project", os.Getenv("SPENDSCAN_PROJECT"), "BigQuery project (empty: print only)")
	dataset := fs.String("dataset", os.Getenv("SPENDSCAN_DATASET"), "BigQuery dataset")
	fs.Parse(os.Args[2:])

	if *body == "" {
		log.Fatal().Msg("Error: --body is required")
	}

	receivedAt := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --at timestamp")
		}
		receivedAt = parsed
	}

	var aliases []sms.BankAliases
	if *banks != "" {
		loaded, err := sms.LoadBanksFile(*banks)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load bank aliases")
		}
		aliases = loaded
	}

	extractor := sms.NewExtractor(loadTaxonomy(*categories, log), aliases)
	candidate, ok := extractor.Extract(*sender, *body, receivedAt)
	if !ok {
		fmt.Println("Message is not a transaction.")
		return
	}

	out, _ := json.MarshalIndent(candidate, "", "  ")
	fmt.Println(string(out))

	if *project != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		txStore, _, closeStores := openStores(ctx, *project, *dataset, log)
		defer closeStores()

		n, err := txStore.InsertCandidates(ctx, []*domain.TransactionCandidate{candidate})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to store transaction")
		}
		fmt.Printf("Stored %d transaction(s).\n", n)
	}
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	uri := fs.String("uri", "", "GCS URI of the statement PDF")
	file := fs.String("file", "", "Path to a local statement PDF (instead of --uri)")
	bank := fs.String("bank", "", "Bank identifier (hdfc, icici, axis)")
	password := fs.String("password", "", "Document password, if protected")
	categories := fs.String("categories", "", "Path to category taxonomy YAML")
	project := fs.String("project", os.Getenv("SPENDSCAN_PROJECT"), "BigQuery project (empty: parse only)")
	dataset := fs.String("dataset", os.Getenv("SPENDSCAN_DATASET"), "BigQuery dataset")
	fs.Parse(os.Args[2:])

	if *bank == "" {
		log.Fatal().Msg("Error: --bank is required")
	}
	if *uri == "" && *file == "" {
		log.Fatal().Msg("Error: --uri or --file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	txStore, cardStore, closeStores := openStores(ctx, *project, *dataset, log)
	defer closeStores()

	pipeline := ingest.NewStatementPipeline(
		gcsstore.NewClient(),
		document.NewPdftotextReader(),
		statement.DefaultRegistry(loadTaxonomy(*categories, log)),
		cardStore,
		txStore,
		log,
	)

	state := &ingest.State{URI: *uri, Bank: *bank, Password: *password}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read statement file")
		}
		state.Data = data
	}

	if err := pipeline.Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingested statement: card=%s cycle=%s transactions=%d\n",
		state.CardID, state.CycleID, state.Inserted)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local PDF file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := gcsstore.NewClient().Upload(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runReconcile(log zerolog.Logger) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	merchant := fs.String("merchant", "", "Merchant name to match against stored transactions")
	file := fs.String("file", "", "Path to order items CSV export")
	project := fs.String("project", os.Getenv("SPENDSCAN_PROJECT"), "BigQuery project")
	dataset := fs.String("dataset", os.Getenv("SPENDSCAN_DATASET"), "BigQuery dataset")
	fs.Parse(os.Args[2:])

	if *merchant == "" || *file == "" {
		log.Fatal().Msg("Usage: cli reconcile -merchant NAME -file ORDERS.csv")
	}

	items, err := orderimport.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read order export")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	txStore, _, closeStores := openStores(ctx, *project, *dataset, log)
	defer closeStores()

	matcher := reconcile.NewMatcher(txStore, nil, log)
	report, err := matcher.Reconcile(ctx, *merchant, items)
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	fmt.Printf("Groups: %d matched, %d unmatched, %d items attached\n",
		report.GroupsMatched, len(report.Unmatched), report.ItemsInserted)
	for _, g := range report.Unmatched {
		fmt.Printf("  unmatched: order %s at %s for %.2f\n",
			g.OrderID, g.OrderedAt.Format(time.RFC3339), g.TotalOwed)
	}
}
