package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/okialbert/wanderlust/internal/ai"
	"github.com/okialbert/wanderlust/internal/api"
	"github.com/okialbert/wanderlust/internal/auth"
	"github.com/okialbert/wanderlust/internal/config"
	"github.com/okialbert/wanderlust/internal/service"
	"github.com/okialbert/wanderlust/internal/storage/sqlite"
	"github.com/okialbert/wanderlust/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI endpoints will fail")
	}
	generator := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	tripSvc := service.NewTripService(store, generator, logger)
	expenseSvc := service.NewExpenseService(store, generator, logger)

	router := api.NewServer(authSvc, tripSvc, expenseSvc).Router(jwtManager)
	handler := corsMiddleware(router)

	addr := ":" + cfg.Port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware allows the browser client to call the API from
// another origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
