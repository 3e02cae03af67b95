package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"

	"github.com/grrt-recruitment/pipeline/internal/auth"
	"github.com/grrt-recruitment/pipeline/internal/config"
	"github.com/grrt-recruitment/pipeline/internal/database"
	"github.com/grrt-recruitment/pipeline/internal/events"
	"github.com/grrt-recruitment/pipeline/internal/handlers"
	"github.com/grrt-recruitment/pipeline/internal/logging"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	log := logrus.NewEntry(logger)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Database Connection
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Database connection failed")
	}

	// 3. Event Publisher
	var publisher events.Publisher = events.LogPublisher{Log: log.WithField("component", "events")}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Warn("⚠️ RabbitMQ unavailable, pipeline events will only be logged")
		} else {
			publisher = amqpPub
			log.WithField("queue", events.QueueName).Info("✅ RabbitMQ publisher connected")
		}
	}
	defer publisher.Close()

	// 4. Optional AI Drafting
	var llmService *services.LLMService
	if cfg.GeminiAPIKey != "" {
		llmService, err = services.NewLLMService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("⚠️ Gemini client unavailable, profile drafting disabled")
			llmService = nil
		}
	} else {
		log.Info("GEMINI_API_KEY not set, profile drafting disabled")
	}

	if cfg.PDFLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.PDFLicenseKey); err != nil {
			log.WithError(err).Warn("⚠️ unipdf license rejected, resume text will not be extracted")
		}
	}

	// 5. Initialize Core Services
	resumeService := services.NewResumeService(cfg.UploadsDir, cfg.MaxResumeBytes, log)
	candidateService := services.NewCandidateService(db, resumeService, publisher, log)

	// 6. Setup Router
	router := handlers.NewRouter(handlers.Deps{
		Candidates:     candidateService,
		Jobs:           services.NewJobService(db),
		Users:          services.NewUserService(db),
		LLM:            llmService,
		Issuer:         auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		LoginLimiter:   auth.NewLoginLimiter(cfg.LoginRatePerMin),
		CORSOrigins:    cfg.CORSOrigins,
		MaxResumeBytes: cfg.MaxResumeBytes,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// 7. Graceful Shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Infof("🚀 Server starting on port %s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server failed to start")
	}

	<-idleConnsClosed
}
