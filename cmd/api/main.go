package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/verdant-labs/climate-receivables/internal/cache"
	"github.com/verdant-labs/climate-receivables/internal/config"
	"github.com/verdant-labs/climate-receivables/internal/handler"
	"github.com/verdant-labs/climate-receivables/internal/integrations/policyrate"
	"github.com/verdant-labs/climate-receivables/internal/middleware"
	"github.com/verdant-labs/climate-receivables/internal/repository"
	"github.com/verdant-labs/climate-receivables/internal/riskconfig"
	"github.com/verdant-labs/climate-receivables/internal/service"
	"github.com/verdant-labs/climate-receivables/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Score cache: Redis when configured, otherwise in-memory
	var scores cache.ScoreCache
	if cfg.RedisAddr != "" {
		scores, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Infof("Using Redis score cache at %s", cfg.RedisAddr)
	} else {
		scores = cache.NewMemoryCache(nil)
		logger.Info("Using in-memory score cache")
	}
	defer scores.Close()

	// Initialize layers
	repo := repository.NewRepository(db)
	store := riskconfig.NewStore(repository.NewConfigRepository(db), logger)
	feedClient := policyrate.NewClient(cfg, logger)
	var feed service.RateFeed
	if cfg.PolicyRateURL != "" {
		feed = feedClient
	}
	var mailer *email.Sender
	if cfg.SMTPHost != "" {
		mailer = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, store, scores, feed, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Scheduled jobs: nightly batch recalculation and morning payment
	// reminders
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 2 * * *", func() {
		if _, err := svc.RecalculateAll(context.Background(), true); err != nil {
			logger.Errorf("Scheduled batch recalculation failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule batch recalculation: %v", err)
	}
	if _, err := scheduler.AddFunc("0 8 * * *", svc.SendDueReminders); err != nil {
		logger.Fatalf("Failed to schedule payment reminders: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Policy rate passthrough for the dashboard
	r.HandleFunc("/policy-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := feedClient.GetPolicyRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get policy rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"policy_rate": rate})
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/config/risk-weights", h.GetRiskWeights).Methods("GET")
	authRouter.HandleFunc("/config/risk-weights", h.UpdateRiskWeights).Methods("PUT")
	authRouter.HandleFunc("/config/risk-thresholds", h.GetRiskThresholds).Methods("GET")
	authRouter.HandleFunc("/config/risk-thresholds", h.UpdateRiskThresholds).Methods("PUT")
	authRouter.HandleFunc("/config/risk-parameters", h.GetRiskParameters).Methods("GET")
	authRouter.HandleFunc("/config/risk-parameters", h.UpdateRiskParameters).Methods("PUT")
	authRouter.HandleFunc("/config/credit-ratings", h.GetCreditRatingMatrix).Methods("GET")
	authRouter.HandleFunc("/config/credit-ratings", h.UpdateCreditRatingMatrix).Methods("PUT")
	authRouter.HandleFunc("/config/reset", h.ResetConfiguration).Methods("POST")

	authRouter.HandleFunc("/assets", h.CreateAsset).Methods("POST")
	authRouter.HandleFunc("/payers", h.CreatePayer).Methods("POST")
	authRouter.HandleFunc("/receivables", h.CreateReceivable).Methods("POST")
	authRouter.HandleFunc("/receivables", h.ListReceivables).Methods("GET")
	authRouter.HandleFunc("/receivables/{id}", h.GetReceivable).Methods("GET")
	authRouter.HandleFunc("/receivables/{id}", h.DeleteReceivable).Methods("DELETE")
	authRouter.HandleFunc("/receivables/{id}/recalculate", h.RecalculateRisk).Methods("POST")
	authRouter.HandleFunc("/risk/recalculate", h.RecalculateAllRisk).Methods("POST")

	authRouter.HandleFunc("/incentives", h.CreateIncentive).Methods("POST")
	authRouter.HandleFunc("/incentives", h.ListIncentives).Methods("GET")
	authRouter.HandleFunc("/incentives/{id}", h.GetIncentive).Methods("GET")
	authRouter.HandleFunc("/incentives/{id}/status", h.UpdateIncentiveStatus).Methods("PUT")

	authRouter.HandleFunc("/forecast", h.GenerateForecast).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
