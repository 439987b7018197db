package matches

import (
	"context"
	"errors"
	"strings"
	"time"

	"pettrack/internal/domain/reports"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record persiste un match. Ambos reportes deben haber existido (el lost ya fue
// consumido por reports.Service.ConfirmMatch, de ahí la copia).
func (s *Service) Record(ctx context.Context, lost, found reports.Report, score float64) (Match, error) {
	if strings.TrimSpace(lost.ID) == "" || strings.TrimSpace(found.ID) == "" {
		return Match{}, ErrInvalidInput
	}

	m := Match{
		ID:            uuid.NewString(),
		LostReportID:  lost.ID,
		FoundReportID: found.ID,
		Score:         score,
		CreatedAt:     s.now(),
		Lost:          lost,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Match, error) {
	return s.repo.List(ctx)
}
