package main

import (
	"context"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"secure-print-release/config"
	_ "secure-print-release/docs"
	"secure-print-release/internal/handler"
	"secure-print-release/internal/ports"
	"secure-print-release/internal/registry"
	"secure-print-release/internal/repository"
	"secure-print-release/internal/security"
	"secure-print-release/internal/service"
	"secure-print-release/internal/util"
	"syscall"
	"time"
)

// @title Secure print release
// @version 1.0
// @description Encrypted print jobs released through one-time links and single-use print tokens

// @host localhost:3001

// @securityDefinitions.apikey PrinterAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("failed to connect to the database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("error while closing the database: %v", err)
		}
	}()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to prepare the schema: %v", err)
	}

	cache, closeCache := setupCache(cfg)
	defer closeCache()
	blobs := setupBlobStorage(ctx, cfg)

	key, err := security.LoadKey(cfg.Crypto.Key)
	if err != nil {
		log.Fatalf("invalid encryption key: %v", err)
	}
	envelope, err := security.NewEnvelope(key)
	if err != nil {
		log.Fatalf("failed to create the envelope: %v", err)
	}

	uploads, err := util.NewUploadStore(afero.NewOsFs(), cfg.Jobs.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare the upload dir: %v", err)
	}

	repos := ports.Repositories{
		Jobs:      repository.NewJobRepository(db),
		Documents: repository.NewDocumentRepository(db),
		Views:     repository.NewViewRepository(db),
		Analysis:  repository.NewAnalysisRepository(db),
	}
	jobService, err := service.NewJobService(
		repos,
		cache,
		blobs,
		envelope,
		service.NewAnalysisService(),
		uploads,
		registry.New(cfg.Jobs, time.Now),
		cfg.Jobs,
		time.Now,
	)
	if err != nil {
		log.Fatalf("failed to create the job service: %v", err)
	}

	cleanup := service.NewCleanupWorker(jobService, cfg.Jobs.CleanupInterval)
	cleanup.Start(ctx)
	defer cleanup.Stop()

	printerAuth := security.NewPrinterAuthService(&cfg.JWT, cfg.Printers)
	if !printerAuth.Enabled() {
		log.Println("[main] JWT_SECRET is not set, printer endpoints are not authenticated")
	}

	srv, router := config.SetupServer(cfg.ServerAddr)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	setupJobRoutes(router, cfg, handler.NewJobHandler(jobService, uploads, &cfg.Server, &cfg.Jobs), printerAuth)

	runServer(ctx, srv)
}

func setupJobRoutes(r chi.Router, cfg *config.AppConfig, h *handler.JobHandler, printerAuth *security.PrinterAuthService) {
	handler.SetupJobRoutes(r, cfg.Server.BasePath, h, handler.NewPrinterHandler(printerAuth), security.PrinterMiddleware(printerAuth))
}

// setupCache : no redis address means no cache
func setupCache(cfg *config.AppConfig) (ports.JobCache, func()) {
	if cfg.RedisConfig.Addr == "" {
		log.Println("[main] REDIS_ADDR is not set, job cache disabled")
		return repository.NoopCache{}, func() {}
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	closeRedis := func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("error while closing Redis: %v", err)
		}
	}
	return repository.NewCacheRepository(redisClient, cfg.Jobs.CacheTTL), closeRedis
}

// setupBlobStorage : a nil BlobStorage keeps ciphertext in the documents table
func setupBlobStorage(ctx context.Context, cfg *config.AppConfig) ports.BlobStorage {
	if !cfg.S3Config.Enabled() {
		return nil
	}

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("failed to create the S3 service: %v", err)
	}
	log.Printf("[main] ciphertext stored in bucket %s", cfg.S3Config.Bucket)
	return s3Service
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("server listening on " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("received signal %v, stopping the server", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("error while stopping the server: %v", err)
	} else {
		log.Println("server stopped")
	}
}
