package intake

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pettrack_match_candidates_total",
		Help: "Candidatos devueltos por el servicio de matching.",
	})

	confirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pettrack_matches_confirmed_total",
		Help: "Matches confirmados (lost consumido + match registrado).",
	})

	// reason: invalid_score, below_threshold, lost_not_found
	skippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pettrack_match_candidates_skipped_total",
			Help: "Candidatos descartados por motivo.",
		},
		[]string{"reason"},
	)

	matchingFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pettrack_matching_failures_total",
		Help: "Llamadas fallidas al servicio de matching (se tratan como cero candidatos).",
	})
)
