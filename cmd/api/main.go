package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pettrack/internal/adapters/auth/firebase"
	"pettrack/internal/adapters/blob/memblob"
	"pettrack/internal/adapters/blob/minioblob"
	"pettrack/internal/adapters/blob/s3blob"
	"pettrack/internal/adapters/geocoding/opencage"
	"pettrack/internal/adapters/lognotify"
	"pettrack/internal/adapters/matchapi"
	mem "pettrack/internal/adapters/storage/memory"
	mdb "pettrack/internal/adapters/storage/mongodb"
	pg "pettrack/internal/adapters/storage/postgres"
	"pettrack/internal/config"
	"pettrack/internal/domain/geocode"
	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/blob"
	"pettrack/internal/router"
)

// @title pettrack API
// @version 1.0
// @description Reportes de mascotas perdidas y encontradas con matching automático.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("fatal", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		DevUserID:      cfg.DevUserID,
		Logger:         log,
		MatchThreshold: &cfg.MatchThreshold,
		MatchPolicy:    cfg.MatchPolicy,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Matcher:        matchapi.New(cfg.MatchingURL, cfg.MatchingTimeout),
		Notifier:       lognotify.New(log),
	}

	// Storage
	var geoRepo geocode.Repository
	switch cfg.Store {
	case config.StorePostgres:
		db, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()

		if err := pg.Migrate(cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		opts.ReportsRepo = pg.NewReportsRepo(db)
		opts.MatchesRepo = pg.NewMatchesRepo(db)
		geoRepo = pg.NewGeocodeRepo(db)

	case config.StoreMongo:
		client, err := mdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		db := client.Database(cfg.MongoDB)
		if err := mdb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		opts.ReportsRepo = mdb.NewReportsRepo(db)
		opts.MatchesRepo = mdb.NewMatchesRepo(db)
		geoRepo = mdb.NewGeocodeRepo(db)

	default:
		log.Warn("DATABASE_URL not set, using in-memory storage", nil)
		opts.ReportsRepo = mem.NewReportRepo()
		opts.MatchesRepo = mem.NewMatchRepo()
		geoRepo = mem.NewGeocodeRepo()
	}

	// Blob
	uploader, err := newUploader(ctx, cfg, log)
	if err != nil {
		return err
	}
	opts.Uploader = uploader

	// Auth
	if cfg.SkipAuth {
		log.Warn("SKIP_AUTH=true: callers identified by X-Debug-User-ID / DEV_USER_ID", map[string]any{
			"dev_user_id": cfg.DevUserID,
		})
	} else {
		verifier, err := firebase.New(ctx, firebase.Config{
			ProjectID: cfg.FirebaseProjectID,
			JWKSURL:   cfg.FirebaseJWKSURL,
		}, log)
		if err != nil {
			return fmt.Errorf("firebase verifier: %w", err)
		}
		opts.AuthVerifier = verifier
	}

	// Geocoding
	if cfg.GeocodingEnabled() {
		provider, err := opencage.New(cfg.OpenCageURL, cfg.OpenCageAPIKey, 0)
		if err != nil {
			return fmt.Errorf("opencage: %w", err)
		}
		opts.Geocoder = geocode.NewService(geoRepo, provider, geocode.Options{
			MemorySize: cfg.GeocodeCacheSize,
			MemoryTTL:  cfg.GeocodeCacheTTL,
		}, log)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"version": config.Version,
			"store":   string(cfg.Store),
			"blob":    string(cfg.Blob),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config, log logger.Logger) (blob.Uploader, error) {
	switch cfg.Blob {
	case config.BlobMinio:
		u, err := minioblob.New(ctx, minioblob.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		return u, nil
	case config.BlobS3:
		u, err := s3blob.New(ctx, s3blob.Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			Endpoint:      cfg.S3.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		return u, nil
	default:
		log.Warn("BLOB_DRIVER=memory: photos are kept in process memory", nil)
		return memblob.New(), nil
	}
}
