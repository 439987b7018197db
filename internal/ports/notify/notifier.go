package notify

import (
	"context"

	"pettrack/internal/domain/reports"
)

// Notifier avisa al dueño de un reporte lost que hubo un match.
// Fire-and-forget: no hay entrega garantizada ni reintentos.
type Notifier interface {
	Notify(ctx context.Context, lost, found reports.Report, score float64)
}
