package s3blob

import (
	"context"
	"errors"
	"io"
	"testing"

	"pettrack/internal/ports/blob"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploader_Upload(t *testing.T) {
	api := &fakePutter{}
	u := NewWithClient(api, Config{Bucket: "pet-photos", Region: "us-east-1"})

	url, err := u.Upload(context.Background(), blob.Object{
		Key:         "pets/r1/0-abc.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
	})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	if aws.ToString(api.in.Bucket) != "pet-photos" || aws.ToString(api.in.Key) != "pets/r1/0-abc.jpg" {
		t.Fatalf("unexpected input bucket=%q key=%q", aws.ToString(api.in.Bucket), aws.ToString(api.in.Key))
	}
	if aws.ToString(api.in.ContentType) != "image/jpeg" || string(api.body) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q / %q", aws.ToString(api.in.ContentType), api.body)
	}
	if want := "https://pet-photos.s3.us-east-1.amazonaws.com/pets/r1/0-abc.jpg"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
}

func TestUploader_ObjectURLVariants(t *testing.T) {
	cdn := NewWithClient(&fakePutter{}, Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	if got := cdn.objectURL("k.png"); got != "https://cdn.example.com/k.png" {
		t.Fatalf("cdn url = %q", got)
	}

	local := NewWithClient(&fakePutter{}, Config{Bucket: "b", Endpoint: "http://localhost:4566"})
	if got := local.objectURL("k.png"); got != "http://localhost:4566/b/k.png" {
		t.Fatalf("endpoint url = %q", got)
	}
}

func TestUploader_PropagatesErrors(t *testing.T) {
	u := NewWithClient(&fakePutter{err: errors.New("access denied")}, Config{Bucket: "b", Region: "r"})
	if _, err := u.Upload(context.Background(), blob.Object{Key: "k"}); err == nil {
		t.Fatalf("expected error")
	}
}
