package blob

import (
	"context"
	"errors"
)

// ErrEmptyURL indica que el storage no devolvió una URL utilizable.
var ErrEmptyURL = errors.New("blob: upload returned empty url")

// Object es un archivo en memoria listo para subir.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Uploader sube un objeto y devuelve su URL pública.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}
