package minioblob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/blob"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string // host:port, sin esquema
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base pública; vacío = esquema + endpoint
}

type Uploader struct {
	client *minio.Client
	bucket string
	base   string
}

// New crea el cliente y se asegura de que el bucket exista.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		log.Info("bucket created", map[string]any{"bucket": cfg.Bucket})
	}

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		base:   publicBase(cfg),
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, obj blob.Object) (string, error) {
	_, err := u.client.PutObject(ctx, u.bucket, obj.Key,
		bytes.NewReader(obj.Data), int64(len(obj.Data)),
		minio.PutObjectOptions{ContentType: obj.ContentType},
	)
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", obj.Key, err)
	}
	return objectURL(u.base, u.bucket, obj.Key), nil
}

func publicBase(cfg Config) string {
	if base := strings.TrimSpace(cfg.PublicURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

func objectURL(base, bucket, key string) string {
	return base + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}
