package matches

import (
	"encoding/json"
	"net/http"
	"time"

	"pettrack/internal/domain/reports"
	"pettrack/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, reportsSvc *reports.Service, log logger.Logger) {
	r.Get("/pets/matches", listMatchesHandler(svc, reportsSvc, log))
}

// Response es el match tal como se persiste (sin reportes embebidos).
type Response struct {
	ID         string    `json:"id"`
	LostPetID  string    `json:"lostPetId"`
	FoundPetID string    `json:"foundPetId"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToResponse(m Match) Response {
	return Response{
		ID:         m.ID,
		LostPetID:  m.LostReportID,
		FoundPetID: m.FoundReportID,
		Score:      m.Score,
		CreatedAt:  m.CreatedAt,
	}
}

// detailedResponse agrega los reportes referenciados.
// foundPet puede ser null si el reporte ya no existe.
type detailedResponse struct {
	Response
	LostPet  reports.Response  `json:"lostPet"`
	FoundPet *reports.Response `json:"foundPet"`
}

// listMatchesHandler godoc
// @Summary Listar matches
// @Description Matches confirmados, más recientes primero, con los reportes lost/found embebidos.
// @Tags matches
// @Produce json
// @Success 200 {array} detailedResponse
// @Failure 500 {object} errorResponse
// @Router /pets/matches [get]
func listMatchesHandler(svc *Service, reportsSvc *reports.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list matches failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "Failed to fetch matches")
			return
		}

		// Varios matches pueden apuntar al mismo found.
		found := map[string]*reports.Response{}

		out := make([]detailedResponse, 0, len(items))
		for _, m := range items {
			fp, seen := found[m.FoundReportID]
			if !seen {
				if rep, err := reportsSvc.GetByID(r.Context(), m.FoundReportID); err == nil {
					resp := reports.ToResponse(rep)
					fp = &resp
				}
				found[m.FoundReportID] = fp
			}

			out = append(out, detailedResponse{
				Response: ToResponse(m),
				LostPet:  reports.ToResponse(m.Lost),
				FoundPet: fp,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
