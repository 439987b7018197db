package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"pettrack/internal/domain/geocode"
	"pettrack/internal/domain/matches"
	"pettrack/internal/domain/reports"
	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/blob"
	"pettrack/internal/ports/matching"
	"pettrack/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrMissingName   = errors.New("missing name")
	ErrInvalidType   = errors.New("invalid type")
	ErrNoPhotos      = errors.New("no files uploaded")
	ErrTooManyPhotos = errors.New("too many photos")
	ErrMissingOwner  = errors.New("missing owner")
)

// DefaultThreshold es el score mínimo para confirmar un match cuando nadie configura otro.
const DefaultThreshold = 0.7

// Config se arma una sola vez al arrancar (ver config.Config).
// Threshold se usa tal cual: 0 confirma cualquier candidato con score válido.
type Config struct {
	Threshold float64
}

// Geocoder resuelve una dirección a coordenadas; ok=false significa "sin ubicación".
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geocode.Result, bool)
}

// Deps agrupa los colaboradores del workflow. Matcher, Notifier y Geocoder son opcionales.
type Deps struct {
	Reports  *reports.Service
	Matches  *matches.Service
	Uploader blob.Uploader
	Matcher  matching.Matcher
	Notifier notify.Notifier
	Geocoder Geocoder
	Logger   logger.Logger
}

type Service struct {
	reports  *reports.Service
	matches  *matches.Service
	uploader blob.Uploader
	matcher  matching.Matcher
	notifier notify.Notifier
	geocoder Geocoder
	cfg      Config
	log      logger.Logger
}

func NewService(d Deps, cfg Config) *Service {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		reports:  d.Reports,
		matches:  d.Matches,
		uploader: d.Uploader,
		matcher:  d.Matcher,
		notifier: d.Notifier,
		geocoder: d.Geocoder,
		cfg:      cfg,
		log:      log.With(map[string]any{"component": "intake"}),
	}
}

// Photo es un archivo recibido en el multipart, ya leído a memoria.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SubmitInput struct {
	Type string // tal cual vino en el request
	Name string

	Breed        string
	Description  string
	ContactName  string
	ContactPhone string
	ContactEmail string

	ReportedAt *time.Time
	Address    string
	Location   *reports.Location

	OwnerID string

	// FromFiles=true: las fotos llegan como archivos (1..5) y se suben.
	// FromFiles=false: PhotoURLs ya alojadas (0..5).
	FromFiles bool
	Photos    []Photo
	PhotoURLs []string
}

// ConfirmedMatch es un match aplicado: Lost es el último estado conocido del reporte consumido.
type ConfirmedMatch struct {
	Match matches.Match
	Lost  reports.Report
	Score float64
}

type FoundResult struct {
	Found   reports.Report
	Matches []ConfirmedMatch
}

// Submit despacha según el tipo declarado en el input.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (reports.Report, *FoundResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return reports.Report{}, nil, ErrMissingName
	}
	t, ok := reports.ParseType(in.Type)
	if !ok {
		return reports.Report{}, nil, ErrInvalidType
	}
	if t == reports.TypeLost {
		r, err := s.SubmitLost(ctx, in)
		return r, nil, err
	}
	res, err := s.SubmitFound(ctx, in)
	if err != nil {
		return reports.Report{}, nil, err
	}
	return res.Found, &res, nil
}

func (s *Service) SubmitLost(ctx context.Context, in SubmitInput) (reports.Report, error) {
	if err := validate(in, reports.TypeLost); err != nil {
		return reports.Report{}, err
	}
	return s.create(ctx, in, reports.TypeLost)
}

func (s *Service) SubmitFound(ctx context.Context, in SubmitInput) (FoundResult, error) {
	if err := validate(in, reports.TypeFound); err != nil {
		return FoundResult{}, err
	}

	found, err := s.create(ctx, in, reports.TypeFound)
	if err != nil {
		return FoundResult{}, err
	}

	res := FoundResult{Found: found, Matches: []ConfirmedMatch{}}

	candidates := s.findCandidates(ctx, found)
	for _, c := range candidates {
		candidatesTotal.Inc()

		score, ok := ParseScore(c.Score)
		if !ok {
			skippedTotal.WithLabelValues("invalid_score").Inc()
			continue
		}
		if score < s.cfg.Threshold {
			skippedTotal.WithLabelValues("below_threshold").Inc()
			continue
		}

		// Consumo atómico: si el mismo lost aparece dos veces, gana el primero.
		lost, err := s.reports.ConfirmMatch(ctx, c.LostID)
		if err != nil {
			if errors.Is(err, reports.ErrNotFound) {
				skippedTotal.WithLabelValues("lost_not_found").Inc()
				continue
			}
			return FoundResult{}, fmt.Errorf("confirm lost report %s: %w", c.LostID, err)
		}

		m, err := s.matches.Record(ctx, lost, found, score)
		if err != nil {
			// El lost ya fue consumido; no hay transacción que lo deshaga.
			// Con archive el reporte sigue en el store (status=matched) y se puede reabrir a mano.
			policy := s.reports.Policy()
			s.log.Error("match record failed after consuming lost report", map[string]any{
				"lost_id":     lost.ID,
				"found_id":    found.ID,
				"score":       score,
				"policy":      string(policy),
				"recoverable": policy == reports.PolicyArchive,
				"error":       err.Error(),
			})
			return FoundResult{}, fmt.Errorf("record match: %w", err)
		}
		confirmedTotal.Inc()

		if s.notifier != nil {
			s.notifier.Notify(ctx, lost, found, score)
		}

		res.Matches = append(res.Matches, ConfirmedMatch{Match: m, Lost: lost, Score: score})
	}

	return res, nil
}

// findCandidates nunca falla: cualquier error del servicio externo equivale a cero candidatos.
func (s *Service) findCandidates(ctx context.Context, found reports.Report) []matching.Candidate {
	if s.matcher == nil {
		return nil
	}
	cands, err := s.matcher.FindCandidates(ctx, found)
	if err != nil {
		matchingFailuresTotal.Inc()
		s.log.Warn("matching service unavailable, continuing without matches", map[string]any{
			"found_id": found.ID,
			"error":    err.Error(),
		})
		return nil
	}
	return cands
}

func validate(in SubmitInput, want reports.Type) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrMissingName
	}
	if t, ok := reports.ParseType(in.Type); !ok || t != want {
		return ErrInvalidType
	}
	if in.FromFiles {
		if len(in.Photos) == 0 {
			return ErrNoPhotos
		}
		if len(in.Photos) > reports.MaxPhotos {
			return ErrTooManyPhotos
		}
	} else if len(in.PhotoURLs) > reports.MaxPhotos {
		return ErrTooManyPhotos
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return ErrMissingOwner
	}
	return nil
}

func (s *Service) create(ctx context.Context, in SubmitInput, t reports.Type) (reports.Report, error) {
	id := s.reports.NewID()

	urls := in.PhotoURLs
	if in.FromFiles {
		var err error
		urls, err = s.uploadPhotos(ctx, id, in.Photos)
		if err != nil {
			return reports.Report{}, err
		}
	}

	loc := in.Location
	if loc == nil && s.geocoder != nil && strings.TrimSpace(in.Address) != "" {
		if res, ok := s.geocoder.Resolve(ctx, in.Address); ok {
			loc = reports.NewPoint(res.Lng, res.Lat)
		}
	}

	r, err := s.reports.Create(ctx, reports.CreateInput{
		ID:           id,
		Name:         in.Name,
		Type:         t,
		Breed:        in.Breed,
		Description:  in.Description,
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		ReportedAt:   in.ReportedAt,
		Address:      in.Address,
		PhotoURLs:    urls,
		Location:     loc,
		OwnerID:      in.OwnerID,
	})
	if err != nil {
		return reports.Report{}, fmt.Errorf("create %s report: %w", t, err)
	}
	return r, nil
}

// uploadPhotos sube de a una; la primera falla aborta todo (sin rollback de las anteriores).
func (s *Service) uploadPhotos(ctx context.Context, reportID string, photos []Photo) ([]string, error) {
	if s.uploader == nil {
		return nil, errors.New("upload photos: no uploader configured")
	}

	urls := make([]string, 0, len(photos))
	for i, p := range photos {
		ct := strings.TrimSpace(p.ContentType)
		if ct == "" || ct == "application/octet-stream" {
			ct = http.DetectContentType(p.Data)
		}

		url, err := s.uploader.Upload(ctx, blob.Object{
			Key:         photoKey(reportID, i, p.Filename),
			ContentType: ct,
			Data:        p.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("upload photo %d: %w", i, err)
		}
		if strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("upload photo %d: %w", i, blob.ErrEmptyURL)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func photoKey(reportID string, i int, filename string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	return fmt.Sprintf("pets/%s/%d-%s%s", reportID, i, uuid.NewString(), ext)
}

// ParseScore acepta números o strings numéricos. NaN/Inf no son scores válidos.
func ParseScore(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
