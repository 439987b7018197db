// Package config carga la configuración del servicio desde variables de entorno.
// Se construye una sola vez al arrancar; un valor inválido corta el arranque.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"pettrack/internal/domain/reports"
	"pettrack/internal/platform/logger"
)

// Version se setea al compilar con -ldflags.
var Version = "dev"

type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StorePostgres StoreDriver = "postgres"
	StoreMongo    StoreDriver = "mongo"
)

type BlobDriver string

const (
	BlobMemory BlobDriver = "memory"
	BlobMinio  BlobDriver = "minio"
	BlobS3     BlobDriver = "s3"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type S3Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string
	Endpoint      string // AWS_ENDPOINT_URL (localstack)
}

type Config struct {
	// --- Servidor ---
	Port               string
	AppName            string
	LogLevel           logger.Level
	LogFormat          logger.Format
	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration

	// --- Storage ---
	Store       StoreDriver
	DatabaseURL string
	MongoDB     string

	// --- Matching ---
	MatchingURL     string
	MatchingTimeout time.Duration
	MatchThreshold  float64
	MatchPolicy     reports.MatchPolicy

	// --- Auth ---
	SkipAuth          bool
	DevUserID         string
	FirebaseProjectID string
	FirebaseJWKSURL   string

	// --- Blob ---
	Blob  BlobDriver
	Minio MinioConfig
	S3    S3Config

	// --- Geocoding ---
	OpenCageAPIKey   string
	OpenCageURL      string
	GeocodeCacheSize int
	GeocodeCacheTTL  time.Duration
}

// GeocodingEnabled indica si hay provider configurado.
func (c *Config) GeocodingEnabled() bool {
	return c.OpenCageAPIKey != ""
}

// Load lee el entorno y valida. Devuelve error con el nombre de la variable inválida.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Servidor ---

	cfg.Port = getEnvDefault("PORT", "8080")
	if n, err := strconv.Atoi(cfg.Port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("PORT: invalid port %q", cfg.Port)
	}
	cfg.AppName = getEnvDefault("APP_NAME", "pettrack")

	cfg.LogLevel, err = parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogFormat, err = parseLogFormat(os.Getenv("LOG_FORMAT"))
	if err != nil {
		return nil, fmt.Errorf("LOG_FORMAT: %w", err)
	}

	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES: must be > 0")
	}

	if cfg.HTTPReadTimeout, err = getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("HTTP_READ_TIMEOUT: %w", err)
	}
	if cfg.HTTPWriteTimeout, err = getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}
	if cfg.HTTPIdleTimeout, err = getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second); err != nil {
		return nil, fmt.Errorf("HTTP_IDLE_TIMEOUT: %w", err)
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Storage ---

	cfg.DatabaseURL = firstEnv("DATABASE_URL", "DB_DSN", "MONGO_URI")
	cfg.Store, err = storeFromURL(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_URL: %w", err)
	}
	cfg.MongoDB = getEnvDefault("MONGO_DB", "pettrack")

	// --- Matching ---

	cfg.MatchingURL = getEnvDefault("MATCHING_API_URL", "http://localhost:8000/match_score")
	if _, err := url.ParseRequestURI(cfg.MatchingURL); err != nil {
		return nil, fmt.Errorf("MATCHING_API_URL: invalid url %q", cfg.MatchingURL)
	}
	if cfg.MatchingTimeout, err = getEnvDuration("MATCHING_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("MATCHING_TIMEOUT: %w", err)
	}

	cfg.MatchThreshold, err = getEnvFloat("MATCH_THRESHOLD", 0.7)
	if err != nil {
		return nil, fmt.Errorf("MATCH_THRESHOLD: %w", err)
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD: must be within [0,1], got %v", cfg.MatchThreshold)
	}

	policy, ok := reports.ParseMatchPolicy(getEnvDefault("MATCH_POLICY", string(reports.PolicyDelete)))
	if !ok {
		return nil, fmt.Errorf("MATCH_POLICY: must be delete|archive")
	}
	cfg.MatchPolicy = policy

	// --- Auth ---

	if cfg.SkipAuth, err = getEnvBool("SKIP_AUTH", false); err != nil {
		return nil, fmt.Errorf("SKIP_AUTH: %w", err)
	}
	cfg.DevUserID = getEnvDefault("DEV_USER_ID", "dev-user")
	cfg.FirebaseProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	cfg.FirebaseJWKSURL = os.Getenv("FIREBASE_JWKS_URL")
	if !cfg.SkipAuth && cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID: required unless SKIP_AUTH=true")
	}

	// --- Blob ---

	switch d := BlobDriver(strings.ToLower(getEnvDefault("BLOB_DRIVER", string(BlobMemory)))); d {
	case BlobMemory:
		cfg.Blob = d
	case BlobMinio:
		cfg.Blob = d
		cfg.Minio = MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnvDefault("MINIO_BUCKET", "pet-photos"),
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		}
		if cfg.Minio.UseSSL, err = getEnvBool("MINIO_USE_SSL", false); err != nil {
			return nil, fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		if cfg.Minio.Endpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT: required when BLOB_DRIVER=minio")
		}
	case BlobS3:
		cfg.Blob = d
		cfg.S3 = S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        firstEnv("S3_REGION", "AWS_REGION"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			Endpoint:      os.Getenv("AWS_ENDPOINT_URL"),
		}
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET: required when BLOB_DRIVER=s3")
		}
	default:
		return nil, fmt.Errorf("BLOB_DRIVER: must be memory|minio|s3, got %q", d)
	}

	// --- Geocoding ---

	cfg.OpenCageAPIKey = strings.TrimSpace(os.Getenv("OPENCAGE_API_KEY"))
	cfg.OpenCageURL = getEnvDefault("OPENCAGE_URL", "https://api.opencagedata.com")
	if cfg.GeocodeCacheSize, err = getEnvInt("GEOCODE_CACHE_SIZE", 1024); err != nil {
		return nil, fmt.Errorf("GEOCODE_CACHE_SIZE: %w", err)
	}
	if cfg.GeocodeCacheTTL, err = getEnvDuration("GEOCODE_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, fmt.Errorf("GEOCODE_CACHE_TTL: %w", err)
	}

	return cfg, nil
}

// storeFromURL elige el storage por el esquema de la URL.
func storeFromURL(raw string) (StoreDriver, error) {
	if raw == "" {
		return StoreMemory, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url")
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

// --- helpers ---

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// firstEnv devuelve el primer valor no vacío entre alias.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getEnvInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return f, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use 30s, 5m, 1h)", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be > 0")
	}
	return d, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}

func parseLogLevel(s string) (logger.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return logger.Info, nil
	case "debug":
		return logger.Debug, nil
	case "warn", "warning":
		return logger.Warn, nil
	case "error":
		return logger.Error, nil
	default:
		return logger.Info, fmt.Errorf("unknown level %q", s)
	}
}

func parseLogFormat(s string) (logger.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return logger.FormatText, nil
	case "json":
		return logger.FormatJSON, nil
	default:
		return logger.FormatText, fmt.Errorf("unknown format %q", s)
	}
}
