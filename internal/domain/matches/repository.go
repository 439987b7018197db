package matches

import "context"

type Repository interface {
	Create(ctx context.Context, m Match) error
	// List devuelve todos los matches, created_at desc.
	List(ctx context.Context) ([]Match, error)
}
