package lognotify

import (
	"context"

	"pettrack/internal/domain/reports"
	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/notify"
)

// Notifier deja el aviso en el log estructurado. No hay entrega real (email/SMS).
type Notifier struct {
	log logger.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

func New(log logger.Logger) *Notifier {
	return &Notifier{log: log.With(map[string]any{"component": "notifier"})}
}

func (n *Notifier) Notify(ctx context.Context, lost, found reports.Report, score float64) {
	contact := lost.ContactEmail
	if contact == "" {
		contact = lost.ContactPhone
	}

	n.log.Info("possible match for lost pet", map[string]any{
		"owner":    lost.ContactName,
		"contact":  contact,
		"lost_id":  lost.ID,
		"found_id": found.ID,
		"finder":   found.ContactName,
		"score":    score,
	})
}
