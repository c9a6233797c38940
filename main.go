package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/momoledger/src/config"
	"github.com/username/momoledger/src/handlers"
	"github.com/username/momoledger/src/logger"
	"github.com/username/momoledger/src/models"
	"github.com/username/momoledger/src/parsers/momo"
	"github.com/username/momoledger/src/security"
	"github.com/username/momoledger/src/store"
)

const (
	statsCacheExpiration      = 5 * time.Minute
	statsCacheCleanupInterval = 10 * time.Minute
)

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loadTransactions rebuilds the store from the SMS log. A missing or
// unparsable log fails closed: the API comes up with an empty store and a
// visible warning instead of aborting or half-populating.
func loadTransactions(txStore *store.Store) {
	txs, err := momo.ParseFile(config.Cfg.SMSFilePath)
	if err != nil {
		logger.L.Warn("SMS log unavailable, starting with an empty store", "path", config.Cfg.SMSFilePath, "error", err)
		return
	}
	txStore.Seed(txs)
	logger.L.Info("Store seeded from SMS log", "transactions", txStore.Len())
}

// exportTransactions dumps the full ordered sequence to a JSON file. The
// dump is a one-way debug artifact; it is never read back in.
func exportTransactions(path string, txs []models.Transaction) error {
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("momoledger server starting...")

	authService, err := security.NewAuthService(config.Cfg.AuthUsers, config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	if err != nil {
		logger.L.Error("Failed to build auth service", "error", err)
		os.Exit(1)
	}

	txStore := store.New()
	loadTransactions(txStore)

	if config.Cfg.ExportJSONPath != "" {
		if err := exportTransactions(config.Cfg.ExportJSONPath, txStore.List()); err != nil {
			logger.L.Warn("Failed to export transactions", "path", config.Cfg.ExportJSONPath, "error", err)
		} else {
			logger.L.Info("Exported transactions", "path", config.Cfg.ExportJSONPath, "count", txStore.Len())
		}
	}

	statsCache := cache.New(statsCacheExpiration, statsCacheCleanupInterval)

	authHandler := handlers.NewAuthHandler(authService)
	txHandler := handlers.NewTransactionHandler(txStore, statsCache)

	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware(limiter))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"api":         "Mobile Money Transaction API",
			"version":     "1.0",
			"description": "REST API for managing mobile money SMS transactions",
			"endpoints": map[string]string{
				"GET /api/transactions":         "Get all transactions",
				"GET /api/transactions/{id}":    "Get transaction by ID",
				"POST /api/transactions":        "Create new transaction",
				"PUT /api/transactions/{id}":    "Update transaction",
				"DELETE /api/transactions/{id}": "Delete transaction",
				"GET /api/transactions/stats":   "Get transaction statistics",
				"POST /api/auth/token":          "Exchange Basic credentials for a bearer token",
			},
			"authentication": "Basic or Bearer authentication required for all /api endpoints",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)

		r.Post("/auth/token", authHandler.HandleIssueToken)

		r.Get("/transactions", txHandler.HandleListTransactions)
		r.Post("/transactions", txHandler.HandleCreateTransaction)
		r.Get("/transactions/stats", txHandler.HandleGetStats)
		r.Get("/transactions/{id}", txHandler.HandleGetTransaction)
		r.Put("/transactions/{id}", txHandler.HandleUpdateTransaction)
		r.Delete("/transactions/{id}", txHandler.HandleDeleteTransaction)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
