package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pettrack/internal/ports/blob"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI es el subconjunto de *s3.Client que usamos (permite fakes en tests).
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string // ej. un CloudFront; vacío = URL de S3
	Endpoint      string // localstack / S3 compatible; activa path-style
}

type Uploader struct {
	api PutObjectAPI
	cfg Config
}

// New carga credenciales con la cadena default de AWS (env, perfil, rol).
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg), nil
}

func NewWithClient(api PutObjectAPI, cfg Config) *Uploader {
	return &Uploader{api: api, cfg: cfg}
}

func (u *Uploader) Upload(ctx context.Context, obj blob.Object) (string, error) {
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Data),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		ContentType:   aws.String(obj.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", obj.Key, err)
	}
	return u.objectURL(obj.Key), nil
}

func (u *Uploader) objectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case u.cfg.PublicBaseURL != "":
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
	case u.cfg.Endpoint != "":
		return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
	}
}
