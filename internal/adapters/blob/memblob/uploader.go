package memblob

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pettrack/internal/ports/blob"
)

// Uploader guarda los objetos en memoria. Para dev y tests.
type Uploader struct {
	mu      sync.RWMutex
	objects map[string]blob.Object
}

func New() *Uploader {
	return &Uploader{objects: make(map[string]blob.Object)}
}

func (u *Uploader) Upload(ctx context.Context, obj blob.Object) (string, error) {
	if strings.TrimSpace(obj.Key) == "" {
		return "", errors.New("memblob: key required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	obj.Data = append([]byte(nil), obj.Data...)
	u.objects[obj.Key] = obj
	return "memory://" + obj.Key, nil
}

func (u *Uploader) Get(key string) (blob.Object, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	obj, ok := u.objects[key]
	return obj, ok
}

func (u *Uploader) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.objects)
}
