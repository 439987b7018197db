package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("report not found")
)

type Service struct {
	repo   Repository
	policy MatchPolicy
	now    func() time.Time
}

func NewService(repo Repository, policy MatchPolicy) *Service {
	if policy == "" {
		policy = PolicyDelete
	}
	return &Service{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

// NewID reserva un id antes de crear el reporte (las fotos se suben bajo ese id).
func (s *Service) NewID() string {
	return uuid.NewString()
}

type CreateInput struct {
	ID   string // opcional; si viene vacío se genera
	Name string
	Type Type

	Breed        string
	Description  string
	ContactName  string
	ContactPhone string
	ContactEmail string

	ReportedAt *time.Time
	Address    string
	PhotoURLs  []string
	Location   *Location

	OwnerID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Report, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Report{}, ErrInvalidInput
	}
	if in.Type != TypeLost && in.Type != TypeFound {
		return Report{}, ErrInvalidInput
	}
	if len(in.PhotoURLs) > MaxPhotos {
		return Report{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return Report{}, ErrInvalidInput
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.NewID()
	}

	now := s.now()
	reportedAt := now
	if in.ReportedAt != nil && !in.ReportedAt.IsZero() {
		reportedAt = *in.ReportedAt
	}

	// Una ubicación fuera de rango se descarta; la geolocalización siempre es opcional.
	loc := in.Location
	if !loc.Valid() {
		loc = nil
	}

	photos := make([]string, 0, len(in.PhotoURLs))
	for _, u := range in.PhotoURLs {
		if u = strings.TrimSpace(u); u != "" {
			photos = append(photos, u)
		}
	}

	r := Report{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Breed:        strings.TrimSpace(in.Breed),
		Description:  strings.TrimSpace(in.Description),
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ReportedAt:   reportedAt,
		Address:      strings.TrimSpace(in.Address),
		PhotoURLs:    photos,
		Location:     loc,
		OwnerID:      strings.TrimSpace(in.OwnerID),
		Status:       StatusOpen,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Report{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List filtra solo con "lost" o "found" exactos; cualquier otro valor equivale a no filtrar.
func (s *Service) List(ctx context.Context, rawType string) ([]Report, error) {
	var filter ListFilter
	switch t := Type(rawType); t {
	case TypeLost, TypeFound:
		filter.Type = t
	}
	return s.repo.List(ctx, filter)
}

// ConfirmMatch es la transición terminal open -> matched de un reporte lost.
// Solo un llamador puede consumir un mismo reporte; el resto recibe ErrNotFound.
func (s *Service) ConfirmMatch(ctx context.Context, lostID string) (Report, error) {
	lostID = strings.TrimSpace(lostID)
	if lostID == "" {
		return Report{}, ErrNotFound
	}
	return s.repo.Consume(ctx, lostID, s.policy)
}

func (s *Service) Policy() MatchPolicy {
	return s.policy
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
