package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/safetylens/safetylens/internal/application"
	appanalysis "github.com/safetylens/safetylens/internal/application/analysis"
	appreport "github.com/safetylens/safetylens/internal/application/report"
	"github.com/safetylens/safetylens/internal/config"
	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	aiopenai "github.com/safetylens/safetylens/internal/infra/ai/openai"
	mysqlp "github.com/safetylens/safetylens/internal/infra/db/mysql"
	"github.com/safetylens/safetylens/internal/infra/db/postgres"
	"github.com/safetylens/safetylens/internal/infra/httpserver"
	reportpdf "github.com/safetylens/safetylens/internal/infra/report"
	minioStore "github.com/safetylens/safetylens/internal/infra/storage"
	"github.com/safetylens/safetylens/internal/middleware"
	"github.com/safetylens/safetylens/pkg/logger"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// optional audit database
	var repo domain.Repository
	var db *sql.DB
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			zlog.Fatal("mysql connect error", zap.Error(err))
		}
		repo = mysqlp.NewAnalysisRepository(db)
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			zlog.Fatal("postgres connect error", zap.Error(err))
		}
		repo = postgres.NewAnalysisRepository(db)
	}
	if db != nil {
		defer db.Close()
	}

	// optional report storage
	var store domain.ReportStore
	if cfg.Minio.Endpoint != "" {
		s, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			zlog.Fatal("minio init error", zap.Error(err))
		}
		store = s
	}

	// init services
	analysisSvc := &appanalysis.Service{
		Vision: aiopenai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.OpenAI.Model),
		Repo:   repo,
		Clock:  application.SystemClock{},
		Log:    zlog,
	}
	reportSvc := &appreport.Service{
		Writer: reportpdf.NewPDFWriter(),
		Store:  store,
		Clock:  application.SystemClock{},
		Log:    zlog,
	}

	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(analysisSvc, reportSvc, zlog, httpserver.Options{
		RateLimitCapacity:   cfg.RateLimit.Capacity,
		RateLimitRefillRate: cfg.RateLimit.RefillRate,
		HealthCheckers:      checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // vision calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zlog.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
}
