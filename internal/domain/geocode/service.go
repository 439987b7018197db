package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"pettrack/internal/platform/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrNotFound = errors.New("geocode: not found")
)

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pettrack_geocode_lookups_total",
		Help: "Resoluciones de direcciones por origen (memory, table, provider, miss).",
	},
	[]string{"source"},
)

// CacheEntry es una fila de la tabla de cache: una por dirección exacta.
type CacheEntry struct {
	Address   string
	Lng       float64
	Lat       float64
	Formatted string
	CreatedAt time.Time
}

// Result es una dirección resuelta.
type Result struct {
	Lng       float64
	Lat       float64
	Formatted string
}

type Repository interface {
	Get(ctx context.Context, address string) (CacheEntry, error)
	// Put no sobrescribe una entrada existente.
	Put(ctx context.Context, e CacheEntry) error
}

// Provider es el geocoder externo.
type Provider interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

type Options struct {
	MemorySize int           // <= 0 desactiva el LRU
	MemoryTTL  time.Duration // 0 = sin expiración
}

// Service resuelve direcciones: LRU en memoria -> tabla de cache -> provider.
// Cualquier falla se traduce en "sin ubicación".
type Service struct {
	repo     Repository
	provider Provider
	mem      *expirable.LRU[string, Result]
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, provider Provider, opts Options, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		repo:     repo,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
	if opts.MemorySize > 0 {
		s.mem = expirable.NewLRU[string, Result](opts.MemorySize, nil, opts.MemoryTTL)
	}
	return s
}

func (s *Service) Resolve(ctx context.Context, address string) (Result, bool) {
	address = strings.TrimSpace(address)
	if s == nil || address == "" {
		return Result{}, false
	}

	if s.mem != nil {
		if res, ok := s.mem.Get(address); ok {
			lookupsTotal.WithLabelValues("memory").Inc()
			return res, true
		}
	}

	if s.repo != nil {
		e, err := s.repo.Get(ctx, address)
		switch {
		case err == nil:
			lookupsTotal.WithLabelValues("table").Inc()
			res := Result{Lng: e.Lng, Lat: e.Lat, Formatted: e.Formatted}
			s.remember(address, res)
			return res, true
		case !errors.Is(err, ErrNotFound):
			// La tabla es solo cache: seguimos con el provider.
			s.log.Warn("geocode cache lookup failed", map[string]any{"error": err.Error()})
		}
	}

	if s.provider == nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		return Result{}, false
	}

	res, err := s.provider.Geocode(ctx, address)
	if err != nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		s.log.Warn("geocoding failed", map[string]any{"address": address, "error": err.Error()})
		return Result{}, false
	}
	lookupsTotal.WithLabelValues("provider").Inc()

	if s.repo != nil {
		err := s.repo.Put(ctx, CacheEntry{
			Address:   address,
			Lng:       res.Lng,
			Lat:       res.Lat,
			Formatted: res.Formatted,
			CreatedAt: s.now(),
		})
		if err != nil {
			s.log.Warn("geocode cache store failed", map[string]any{"error": err.Error()})
		}
	}
	s.remember(address, res)

	return res, true
}

func (s *Service) remember(address string, res Result) {
	if s.mem != nil {
		s.mem.Add(address, res)
	}
}
