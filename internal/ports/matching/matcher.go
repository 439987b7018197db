package matching

import (
	"context"

	"pettrack/internal/domain/reports"
)

// Candidate es un posible match devuelto por el servicio externo.
// Score llega tal cual del JSON (número o string); la coerción es responsabilidad de quien lo consume.
type Candidate struct {
	LostID string
	Score  any
}

// Matcher consulta el servicio de scoring con un reporte found.
type Matcher interface {
	FindCandidates(ctx context.Context, found reports.Report) ([]Candidate, error)
}
