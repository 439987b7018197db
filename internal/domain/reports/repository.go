package reports

import "context"

type Repository interface {
	Create(ctx context.Context, r Report) error
	GetByID(ctx context.Context, id string) (Report, error)
	// List devuelve reportes open, created_at desc (desempate por id desc).
	List(ctx context.Context, filter ListFilter) ([]Report, error)
	// Consume aplica open -> matched de forma atómica sobre un reporte lost.
	// Con PolicyDelete el reporte se borra; con PolicyArchive queda con status matched.
	// Devuelve el reporte consumido (status matched) o ErrNotFound si no existe,
	// no es lost o ya fue consumido.
	Consume(ctx context.Context, id string, policy MatchPolicy) (Report, error)
}

type ListFilter struct {
	Type Type // vacío = todos
}
