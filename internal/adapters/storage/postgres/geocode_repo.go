package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pettrack/internal/domain/geocode"
)

type GeocodeRepo struct {
	db *sql.DB
}

func NewGeocodeRepo(db *sql.DB) *GeocodeRepo {
	return &GeocodeRepo{db: db}
}

func (r *GeocodeRepo) Get(ctx context.Context, address string) (geocode.CacheEntry, error) {
	var e geocode.CacheEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT address, lng, lat, formatted, created_at
		FROM geocode_cache
		WHERE address = $1
	`, address).Scan(&e.Address, &e.Lng, &e.Lat, &e.Formatted, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return geocode.CacheEntry{}, geocode.ErrNotFound
		}
		return geocode.CacheEntry{}, err
	}
	return e, nil
}

// Put: la primera resolución de una dirección queda; las siguientes se ignoran.
func (r *GeocodeRepo) Put(ctx context.Context, e geocode.CacheEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address, lng, lat, formatted, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (address) DO NOTHING
	`, e.Address, e.Lng, e.Lat, e.Formatted, e.CreatedAt)
	return err
}
