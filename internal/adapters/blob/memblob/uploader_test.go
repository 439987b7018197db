package memblob

import (
	"context"
	"testing"

	"pettrack/internal/ports/blob"
)

func TestUpload_StoresCopy(t *testing.T) {
	u := New()
	data := []byte("png-bytes")

	url, err := u.Upload(context.Background(), blob.Object{Key: "pets/r1/0-a.png", ContentType: "image/png", Data: data})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "memory://pets/r1/0-a.png" {
		t.Fatalf("unexpected url %q", url)
	}

	data[0] = 'X'
	obj, ok := u.Get("pets/r1/0-a.png")
	if !ok || string(obj.Data) != "png-bytes" || obj.ContentType != "image/png" {
		t.Fatalf("expected stored copy, got %+v ok=%v", obj, ok)
	}
	if u.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", u.Len())
	}
}

func TestUpload_RequiresKey(t *testing.T) {
	if _, err := New().Upload(context.Background(), blob.Object{Key: "  "}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
