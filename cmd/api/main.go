package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GopiHariraj/networthauat/internal/api/handlers"
	"github.com/GopiHariraj/networthauat/internal/api/middleware"
	"github.com/GopiHariraj/networthauat/internal/archive"
	"github.com/GopiHariraj/networthauat/internal/config"
	"github.com/GopiHariraj/networthauat/internal/extract"
	"github.com/GopiHariraj/networthauat/internal/ingest"
	"github.com/GopiHariraj/networthauat/internal/ledger"
	"github.com/GopiHariraj/networthauat/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flags override the environment.
	var (
		port   = flag.String("port", cfg.Port, "HTTP server port")
		dbPath = flag.String("db", cfg.DBPath, "SQLite database path")
		bucket = flag.String("bucket", cfg.ArchiveBucket, "GCS bucket for statement archives (or set ARCHIVE_BUCKET)")
	)
	flag.Parse()

	log := logger.New()

	ctx := context.Background()

	store, err := ledger.Open(*dbPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger store")
	}

	extractor, err := extract.NewClient(ctx, cfg.GeminiModel, cfg.ExtractTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extraction client")
	}

	var archiver ingest.Archiver = archive.Disabled{}
	if *bucket != "" {
		archiver = archive.NewGCS(*bucket)
	} else {
		log.Warn().Msg("No archive bucket configured - statement uploads will not be archived")
	}

	dispatcher := ingest.NewDispatcher(store, store, store, log)
	svc := ingest.NewService(extractor, extractor, extractor, dispatcher, archiver, store, log)

	transactionsHandler := handlers.NewTransactionsHandler(svc, log)
	netWorthHandler := handlers.NewNetWorthHandler(store, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.CreateManual(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/sms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.ParseSMS(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/receipt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.AnalyzeReceipt(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/statement", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.ParseStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/networth", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			netWorthHandler.GetNetWorth(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			netWorthHandler.ListAccounts(w, r)
		case http.MethodPost:
			netWorthHandler.CreateAccount(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/credit-cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			netWorthHandler.CreateCreditCard(w, r)
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
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
