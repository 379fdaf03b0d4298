package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"callnotify/internal/audit"
	"callnotify/internal/auth"
	"callnotify/internal/classify"
	"callnotify/internal/config"
	"callnotify/internal/extraction"
	"callnotify/internal/reporting"
	"callnotify/internal/sms"
	"callnotify/internal/voiceagent"
	"callnotify/internal/webhook"
	"callnotify/pkg/logger"
	"callnotify/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local convenience; env vars always win over the file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	agent := voiceagent.NewClient(voiceagent.Config{
		APIKey:        cfg.VoiceAgent.APIKey,
		AgentID:       cfg.VoiceAgent.AgentID,
		PhoneNumberID: cfg.VoiceAgent.PhoneNumberID,
		BaseURL:       cfg.VoiceAgent.BaseURL,
	})

	var twilio *sms.TwilioClient
	if cfg.SMSConfigured() {
		twilio = sms.NewTwilioClient(sms.TwilioConfig{
			AccountSID:   cfg.Twilio.AccountSID,
			AuthToken:    cfg.Twilio.AuthToken,
			SenderNumber: cfg.Twilio.SenderNumber,
		})
	} else {
		log.Warn("twilio credentials not configured, sms dispatch will be suppressed")
	}

	// Audit storage: Postgres when configured, bounded in-memory otherwise.
	mem := audit.NewMemoryRepo(0)
	var auditRepo audit.Repository = mem
	var auditReader audit.Reader = mem
	if cfg.DB.DSN != "" {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.DB.DSN, utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := audit.NewPostgresRepo(db)
		auditRepo = pg
		auditReader = pg
	} else {
		log.Warn("DATABASE_URL not set, audit records are in-memory only")
	}

	// Webhook dedup: optional, requires Redis.
	var dedup webhook.Deduper
	if cfg.Redis.Addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		dedup = webhook.NewRedisDeduper(rdb, cfg.Webhook.DedupTTL)
	} else {
		log.Warn("REDIS_ADDR not set, webhook dedup disabled")
	}

	capture := webhook.NewCapture(cfg.Webhook.CaptureSize)

	webhookHandler := &webhook.Handler{
		Extractor:       extraction.NewExtractor(cfg.Twilio.SenderNumber),
		Classifier:      classify.NewClassifier(),
		Dispatcher:      sms.NewDispatcher(twilio),
		Dedup:           dedup,
		Audit:           audit.NewService(auditRepo),
		Capture:         capture,
		DispatchTimeout: cfg.Webhook.DispatchTimeout,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		Auth:      authManager,
		Agent:     agent,
		Webhook:   webhookHandler,
		Audit:     auditReader,
		Capture:   capture,
		Reporting: reporting.NewService(auditReader),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
