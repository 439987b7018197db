package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"pettrack/internal/domain/reports"
)

const reportColumns = `
	id, name, type,
	breed, description,
	contact_name, contact_phone, contact_email,
	reported_at, address, photo_urls,
	lng, lat,
	owner_id, status, created_at`

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	photos, err := json.Marshal(nonNil(rep.PhotoURLs))
	if err != nil {
		return err
	}
	lng, lat := toNullPoint(rep.Location)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pet_reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		rep.ID,
		rep.Name,
		string(rep.Type),
		rep.Breed,
		rep.Description,
		rep.ContactName,
		rep.ContactPhone,
		rep.ContactEmail,
		rep.ReportedAt,
		rep.Address,
		string(photos),
		lng,
		lat,
		rep.OwnerID,
		string(rep.Status),
		rep.CreatedAt,
	)
	return err
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Report{}, reports.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM pet_reports WHERE id = $1`, id)
	return scanReport(row)
}

func (r *ReportsRepo) List(ctx context.Context, filter reports.ListFilter) ([]reports.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM pet_reports WHERE status = 'open'`
	args := []any{}
	if filter.Type != "" {
		query += ` AND type = $1`
		args = append(args, string(filter.Type))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Consume resuelve la condición y el cambio en una sola sentencia, así dos
// requests concurrentes no pueden consumir el mismo lost.
func (r *ReportsRepo) Consume(ctx context.Context, id string, policy reports.MatchPolicy) (reports.Report, error) {
	var query string
	if policy == reports.PolicyArchive {
		query = `
			UPDATE pet_reports SET status = 'matched'
			WHERE id = $1 AND type = 'lost' AND status = 'open'
			RETURNING ` + reportColumns
	} else {
		query = `
			DELETE FROM pet_reports
			WHERE id = $1 AND type = 'lost' AND status = 'open'
			RETURNING ` + reportColumns
	}

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return reports.Report{}, err
	}
	rep.Status = reports.StatusMatched
	return rep, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (reports.Report, error) {
	var (
		rep      reports.Report
		typ      string
		status   string
		photos   []byte
		lng, lat sql.NullFloat64
	)
	if err := s.Scan(
		&rep.ID,
		&rep.Name,
		&typ,
		&rep.Breed,
		&rep.Description,
		&rep.ContactName,
		&rep.ContactPhone,
		&rep.ContactEmail,
		&rep.ReportedAt,
		&rep.Address,
		&photos,
		&lng,
		&lat,
		&rep.OwnerID,
		&status,
		&rep.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reports.Report{}, reports.ErrNotFound
		}
		return reports.Report{}, err
	}

	rep.Type = reports.Type(typ)
	rep.Status = reports.Status(status)
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &rep.PhotoURLs); err != nil {
			return reports.Report{}, err
		}
	}
	if lng.Valid && lat.Valid {
		rep.Location = reports.NewPoint(lng.Float64, lat.Float64)
	}
	return rep, nil
}

func toNullPoint(loc *reports.Location) (sql.NullFloat64, sql.NullFloat64) {
	if !loc.Valid() {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Lng(), Valid: true}, sql.NullFloat64{Float64: loc.Lat(), Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
