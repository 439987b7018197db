package matches

import (
	"time"

	"pettrack/internal/domain/reports"
)

// Match enlaza un reporte lost con uno found. Se crea una vez y no se modifica.
type Match struct {
	ID            string
	LostReportID  string
	FoundReportID string
	Score         float64
	CreatedAt     time.Time

	// Lost es una copia del reporte lost al momento de consumirlo:
	// con la política delete es la única forma de seguir mostrándolo.
	Lost reports.Report
}
