package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pettrack/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/pets", listReportsHandler(svc, log))
	r.Get("/pets/{petID}", getReportHandler(svc, log))
}

// Response es la representación pública de un reporte.
// La usan también los módulos intake y matches.
type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         Type      `json:"type" enums:"lost,found"`
	Breed        string    `json:"breed,omitempty"`
	Description  string    `json:"description,omitempty"`
	ContactName  string    `json:"ownerName,omitempty"`
	ContactPhone string    `json:"ownerPhone,omitempty"`
	ContactEmail string    `json:"ownerEmail,omitempty"`
	ReportedAt   time.Time `json:"lastSeenDate"`
	Address      string    `json:"address,omitempty"`
	PhotoURLs    []string  `json:"photoUrls"`
	Location     *Location `json:"location,omitempty"`
	OwnerID      string    `json:"ownerId"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ToResponse(r Report) Response {
	photos := r.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return Response{
		ID:           r.ID,
		Name:         r.Name,
		Type:         r.Type,
		Breed:        r.Breed,
		Description:  r.Description,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		ReportedAt:   r.ReportedAt,
		Address:      r.Address,
		PhotoURLs:    photos,
		Location:     r.Location,
		OwnerID:      r.OwnerID,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

// listReportsHandler godoc
// @Summary Listar reportes
// @Description Devuelve los reportes abiertos, más recientes primero. Un `type` desconocido se ignora.
// @Tags pets
// @Produce json
// @Param type query string false "lost | found"
// @Success 200 {array} Response
// @Failure 500 {object} errorResponse
// @Router /pets [get]
func listReportsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("type"))
		if err != nil {
			log.Error("list reports failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "An error occurred while fetching pets")
			return
		}

		out := make([]Response, 0, len(items))
		for _, it := range items {
			out = append(out, ToResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getReportHandler godoc
// @Summary Obtener reporte
// @Tags pets
// @Produce json
// @Param petID path string true "ID del reporte"
// @Success 200 {object} Response
// @Failure 404 {object} errorResponse
// @Router /pets/{petID} [get]
func getReportHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "pet not found")
				return
			}
			log.Error("get report failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(rep))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON/writeError se repiten por módulo (ver intake y matches).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
