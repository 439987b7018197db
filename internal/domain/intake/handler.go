package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pettrack/internal/domain/matches"
	"pettrack/internal/domain/reports"
	"pettrack/internal/middleware"
	"pettrack/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// DefaultMaxUploadBytes es el límite del body multipart si no se configura otro.
const DefaultMaxUploadBytes int64 = 32 << 20

func RegisterRoutes(r chi.Router, svc *Service, maxUploadBytes int64, log logger.Logger) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	h := &handler{svc: svc, maxUpload: maxUploadBytes, log: log}

	r.Post("/pets", h.submit)
	r.Post("/pets/lost", h.submitLost)
	r.Post("/pets/found", h.submitFound)
}

type handler struct {
	svc       *Service
	maxUpload int64
	log       logger.Logger
}

// submitRequest es el body JSON (las fotos ya vienen alojadas en photoUrls).
type submitRequest struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Breed         string            `json:"breed"`
	Description   string            `json:"description"`
	OwnerName     string            `json:"ownerName"`
	ReporterName  string            `json:"reporterName"`
	OwnerPhone    string            `json:"ownerPhone"`
	ReporterPhone string            `json:"reporterPhone"`
	OwnerEmail    string            `json:"ownerEmail"`
	LastSeenDate  string            `json:"lastSeenDate"` // RFC3339 o YYYY-MM-DD
	Address       string            `json:"address"`
	Latitude      *float64          `json:"latitude"`
	Longitude     *float64          `json:"longitude"`
	Location      *reports.Location `json:"location"`
	PhotoURLs     []string          `json:"photoUrls"`
}

type lostResponse struct {
	Message string           `json:"message"`
	Pet     reports.Response `json:"pet"`
}

type confirmedMatchResponse struct {
	Match   matches.Response `json:"match"`
	LostPet reports.Response `json:"lostPet"`
	Score   float64          `json:"score"`
}

type foundResponse struct {
	Message  string                   `json:"message"`
	FoundPet reports.Response         `json:"foundPet"`
	Matches  []confirmedMatchResponse `json:"matches"`
}

// submit godoc
// @Summary Crear reporte
// @Description Crea un reporte lost o found según `type`. Acepta multipart (campo `files`, 1 a 5 imágenes) o JSON con `photoUrls`.
// @Tags pets
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param name formData string true "Nombre"
// @Param type formData string true "lost | found"
// @Param files formData file false "Fotos (hasta 5)"
// @Success 201 {object} foundResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /pets [post]
func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	rep, found, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	if found != nil {
		writeJSON(w, http.StatusCreated, toFoundResponse(*found))
		return
	}
	writeJSON(w, http.StatusCreated, lostResponse{Message: "Lost pet added", Pet: reports.ToResponse(rep)})
}

// submitLost godoc
// @Summary Reportar mascota perdida
// @Tags pets
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param name formData string true "Nombre"
// @Param type formData string true "lost"
// @Param files formData file true "Fotos (1 a 5)"
// @Success 201 {object} lostResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /pets/lost [post]
func (h *handler) submitLost(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	rep, err := h.svc.SubmitLost(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lostResponse{Message: "Lost pet added", Pet: reports.ToResponse(rep)})
}

// submitFound godoc
// @Summary Reportar mascota encontrada
// @Description Crea el reporte, consulta el servicio de matching y confirma los candidatos con score >= umbral.
// @Tags pets
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param name formData string true "Nombre"
// @Param type formData string true "found"
// @Param files formData file true "Fotos (1 a 5)"
// @Success 201 {object} foundResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /pets/found [post]
func (h *handler) submitFound(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	res, err := h.svc.SubmitFound(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFoundResponse(res))
}

func toFoundResponse(res FoundResult) foundResponse {
	out := foundResponse{
		Message:  "Found pet added",
		FoundPet: reports.ToResponse(res.Found),
		Matches:  make([]confirmedMatchResponse, 0, len(res.Matches)),
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, confirmedMatchResponse{
			Match:   matches.ToResponse(m.Match),
			LostPet: reports.ToResponse(m.Lost),
			Score:   m.Score,
		})
	}
	return out
}

// decode exige identidad y arma el SubmitInput desde multipart o JSON.
// Si devuelve ok=false ya escribió la respuesta.
func (h *handler) decode(w http.ResponseWriter, r *http.Request) (SubmitInput, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return SubmitInput{}, false
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		in  SubmitInput
		err error
	)
	switch mediaType {
	case "multipart/form-data":
		in, err = h.decodeMultipart(w, r)
	case "application/json":
		in, err = decodeJSON(r)
	default:
		writeError(w, http.StatusBadRequest, "unsupported content type")
		return SubmitInput{}, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return SubmitInput{}, false
	}

	in.OwnerID = claims.UserID
	return in, true
}

func (h *handler) decodeMultipart(w http.ResponseWriter, r *http.Request) (SubmitInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return SubmitInput{}, errors.New("upload too large")
		}
		return SubmitInput{}, errors.New("invalid multipart form")
	}

	f := r.MultipartForm
	get := func(key string) string {
		if vs := f.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	in := SubmitInput{
		Type:         get("type"),
		Name:         get("name"),
		Breed:        get("breed"),
		Description:  get("description"),
		ContactName:  firstNonEmpty(get("ownerName"), get("reporterName")),
		ContactPhone: firstNonEmpty(get("ownerPhone"), get("reporterPhone")),
		ContactEmail: get("ownerEmail"),
		Address:      get("address"),
		FromFiles:    true,
	}

	reportedAt, err := parseLastSeen(get("lastSeenDate"))
	if err != nil {
		return SubmitInput{}, err
	}
	in.ReportedAt = reportedAt
	in.Location = parsePoint(get("latitude"), get("longitude"))

	// Se leen todos los archivos; el conteo lo valida el servicio (antes de subir nada).
	for _, fh := range f.File["files"] {
		file, err := fh.Open()
		if err != nil {
			return SubmitInput{}, fmt.Errorf("invalid file %q", fh.Filename)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return SubmitInput{}, fmt.Errorf("invalid file %q", fh.Filename)
		}
		in.Photos = append(in.Photos, Photo{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return in, nil
}

func decodeJSON(r *http.Request) (SubmitInput, error) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return SubmitInput{}, errors.New("invalid json")
	}

	reportedAt, err := parseLastSeen(req.LastSeenDate)
	if err != nil {
		return SubmitInput{}, err
	}

	loc := req.Location
	if loc == nil && req.Latitude != nil && req.Longitude != nil {
		loc = reports.NewPoint(*req.Longitude, *req.Latitude)
	}

	return SubmitInput{
		Type:         strings.TrimSpace(req.Type),
		Name:         req.Name,
		Breed:        req.Breed,
		Description:  req.Description,
		ContactName:  firstNonEmpty(req.OwnerName, req.ReporterName),
		ContactPhone: firstNonEmpty(req.OwnerPhone, req.ReporterPhone),
		ContactEmail: req.OwnerEmail,
		ReportedAt:   reportedAt,
		Address:      req.Address,
		Location:     loc,
		PhotoURLs:    req.PhotoURLs,
	}, nil
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingName):
		writeError(w, http.StatusBadRequest, "Missing name")
	case errors.Is(err, ErrInvalidType):
		writeError(w, http.StatusBadRequest, "Invalid type (must be lost|found)")
	case errors.Is(err, ErrNoPhotos):
		writeError(w, http.StatusBadRequest, "No files uploaded")
	case errors.Is(err, ErrTooManyPhotos):
		writeError(w, http.StatusBadRequest, "Max 5 images allowed")
	case errors.Is(err, ErrMissingOwner):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.log.Error("submit report failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "An error occurred while saving the pet")
	}
}

func parseLastSeen(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, errors.New("lastSeenDate must be RFC3339 or YYYY-MM-DD")
}

// parsePoint solo arma la ubicación si ambas coordenadas parsean.
func parsePoint(lat, lng string) *reports.Location {
	if lat == "" || lng == "" {
		return nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil
	}
	return reports.NewPoint(lo, la)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
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
