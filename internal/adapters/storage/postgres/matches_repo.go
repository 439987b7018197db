package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pettrack/internal/domain/matches"
	"pettrack/internal/domain/reports"
)

type MatchesRepo struct {
	db *sql.DB
}

func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db}
}

// lostSnapshot es la forma en que se guarda el lost consumido dentro de matches.lost_snapshot.
type lostSnapshot struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Breed        string    `json:"breed,omitempty"`
	Description  string    `json:"description,omitempty"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ReportedAt   time.Time `json:"reported_at"`
	Address      string    `json:"address,omitempty"`
	PhotoURLs    []string  `json:"photo_urls"`
	Lng          *float64  `json:"lng,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	OwnerID      string    `json:"owner_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toSnapshot(r reports.Report) lostSnapshot {
	s := lostSnapshot{
		ID:           r.ID,
		Name:         r.Name,
		Type:         string(r.Type),
		Breed:        r.Breed,
		Description:  r.Description,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		ReportedAt:   r.ReportedAt,
		Address:      r.Address,
		PhotoURLs:    nonNil(r.PhotoURLs),
		OwnerID:      r.OwnerID,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
	if r.Location.Valid() {
		lng, lat := r.Location.Lng(), r.Location.Lat()
		s.Lng, s.Lat = &lng, &lat
	}
	return s
}

func (s lostSnapshot) report() reports.Report {
	r := reports.Report{
		ID:           s.ID,
		Name:         s.Name,
		Type:         reports.Type(s.Type),
		Breed:        s.Breed,
		Description:  s.Description,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		ReportedAt:   s.ReportedAt,
		Address:      s.Address,
		PhotoURLs:    s.PhotoURLs,
		OwnerID:      s.OwnerID,
		Status:       reports.Status(s.Status),
		CreatedAt:    s.CreatedAt,
	}
	if s.Lng != nil && s.Lat != nil {
		r.Location = reports.NewPoint(*s.Lng, *s.Lat)
	}
	return r
}

func (r *MatchesRepo) Create(ctx context.Context, m matches.Match) error {
	snap, err := json.Marshal(toSnapshot(m.Lost))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO matches (
			id, lost_report_id, found_report_id,
			score, lost_snapshot, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		m.ID,
		m.LostReportID,
		m.FoundReportID,
		m.Score,
		string(snap),
		m.CreatedAt,
	)
	return err
}

func (r *MatchesRepo) List(ctx context.Context) ([]matches.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, lost_report_id, found_report_id,
			score, lost_snapshot, created_at
		FROM matches
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matches.Match, 0)
	for rows.Next() {
		var (
			m    matches.Match
			raw  []byte
			snap lostSnapshot
		)
		if err := rows.Scan(
			&m.ID,
			&m.LostReportID,
			&m.FoundReportID,
			&m.Score,
			&raw,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, err
		}
		m.Lost = snap.report()
		out = append(out, m)
	}
	return out, rows.Err()
}
