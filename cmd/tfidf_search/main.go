package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/tfidf-search/api"
	"github.com/gcbaptista/tfidf-search/config"
	"github.com/gcbaptista/tfidf-search/internal/collection"
	"github.com/gcbaptista/tfidf-search/internal/engine"
	"github.com/gcbaptista/tfidf-search/internal/extract"
	"github.com/gcbaptista/tfidf-search/internal/indexing"
	"github.com/gcbaptista/tfidf-search/internal/logger"
	"github.com/gcbaptista/tfidf-search/internal/metrics"
	"github.com/gcbaptista/tfidf-search/internal/report"
)

const defaultQuery = "Brutus Caesar Calpurnia is a"

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML settings file")
		collDir    = flag.String("collection", "", "Directory holding the documents (overrides the settings)")
		query      = flag.String("query", "", "Query to evaluate once the collection is indexed")
		topK       = flag.Int("k", 5, "Number of results printed for -query")
		serve      = flag.Bool("serve", false, "Build the index in the background and serve the HTTP API")
		port       = flag.String("port", "", "Port to run the server on (overrides the settings)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("tfidf-search - TF-IDF ranked search over a document collection\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -collection collection_html                       # Index and run the sample query\n", os.Args[0])
		fmt.Printf("  %s -collection collection_html -query \"romeo\" -k 10  # Index and run a query\n", os.Args[0])
		fmt.Printf("  %s -config config.yaml -serve -port 9000             # Serve the HTTP API\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("tfidf-search v1.0.0\n")
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *collDir != "" {
		settings.Collection.Dir = *collDir
	}
	if *port != "" {
		settings.Server.Port = *port
	}
	if problems := settings.Validate(); len(problems) > 0 {
		for _, problem := range problems {
			fmt.Fprintf(os.Stderr, "Invalid settings: %s\n", problem)
		}
		os.Exit(1)
	}

	// Logs go to stderr so the report on stdout stays clean.
	logger.SetupOutput(os.Stderr, settings.Logging.Level, settings.Logging.Format)
	log := logger.WithComponent("main")

	if settings.Collection.Dir == "" {
		log.Fatal("no collection directory: set -collection or collection.dir")
	}
	paths, err := collection.List(settings.Collection.Dir, settings.Collection.Extensions)
	if err != nil {
		log.WithError(err).Fatal("failed to list the collection")
	}
	log.WithFields(logrus.Fields{
		"dir":       settings.Collection.Dir,
		"documents": len(paths),
	}).Info("collection listed")

	if *serve {
		if err := runServer(settings, paths); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
		return
	}

	q := *query
	if q == "" {
		q = defaultQuery
	}
	if err := runQuery(os.Stdout, settings, paths, q, *topK); err != nil {
		log.WithError(err).Fatal("query failed")
	}
}

// runQuery builds the index in the foreground, printing one table row per
// document to w, then prints the ranked results of q.
func runQuery(w io.Writer, settings *config.Settings, paths []string, q string, k int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buildConfig := indexing.BuildConfigFromSettings(settings.Indexing)
	buildConfig.DocumentCallback = func(docID int, path string, vocabulary int) {
		_ = report.PrintBuildRow(w, docID, path, vocabulary)
	}

	eng := engine.NewEngine(extract.NewHTMLExtractor(), buildConfig, nil)
	defer eng.Close()

	stats, err := eng.Build(ctx, paths)
	if err != nil {
		return err
	}
	if stats.Errors != nil {
		logger.WithComponent("main").WithError(stats.Errors).Warnf("%d documents skipped", len(stats.Skipped))
	}
	if err := report.PrintBuildSummary(w, stats.Tokens, stats.Terms); err != nil {
		return err
	}

	result, err := eng.Search(q, k)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, q); err != nil {
		return err
	}
	return report.PrintResults(w, result.Hits)
}

// runServer starts the build job and serves the HTTP API until the process
// is interrupted.
func runServer(settings *config.Settings, paths []string) error {
	log := logger.WithComponent("server")

	var m *metrics.Metrics
	if settings.Metrics.Enabled {
		m = metrics.New()
	}

	eng := engine.NewEngine(extract.NewHTMLExtractor(), indexing.BuildConfigFromSettings(settings.Indexing), m)
	defer eng.Close()

	jobID, err := eng.StartBuild(paths)
	if err != nil {
		return err
	}
	log.WithField("job_id", jobID).Info("index build started")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, eng, api.Options{
		DefaultTopK: settings.Search.DefaultTopK,
		MaxTopK:     settings.Search.MaxTopK,
		Metrics:     m,
	})

	server := &http.Server{
		Addr:         ":" + settings.Server.Port,
		Handler:      router,
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", settings.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
