package repository

import (
	"context"

	"workorder-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const locationColumns = `id, name, address, city, state_province, postal_code, country,
	latitude, longitude, created_at, updated_at`

func scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.StateProvince,
		&loc.PostalCode,
		&loc.Country,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func collectLocations(rows pgx.Rows) ([]models.Location, error) {
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	return locations, rows.Err()
}

// FindLocationsByAddress returns locations matching address, city and state exactly.
func (r *Repository) FindLocationsByAddress(ctx context.Context, address, city, stateProvince string) ([]models.Location, error) {
	sql := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE address = $1 AND city = $2 AND state_province = $3
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, sql, address, city, stateProvince)
	if err != nil {
		return nil, translate(err, "failed to query locations by address")
	}

	locations, err := collectLocations(rows)
	if err != nil {
		return nil, translate(err, "failed to scan locations")
	}
	return locations, nil
}

// InsertLocation persists loc and returns the stored row.
func (r *Repository) InsertLocation(ctx context.Context, loc models.Location) (*models.Location, error) {
	sql := `
		INSERT INTO locations (name, address, city, state_province, postal_code, country, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + locationColumns

	created, err := scanLocation(r.db.QueryRow(ctx, sql,
		loc.Name,
		loc.Address,
		loc.City,
		loc.StateProvince,
		loc.PostalCode,
		loc.Country,
		loc.Latitude,
		loc.Longitude,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, translate(err, "failed to insert location")
	}
	return created, nil
}

// CopyLocations bulk inserts locs with COPY and returns the number of rows written.
func (r *Repository) CopyLocations(ctx context.Context, locs []models.Location) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"locations"},
		[]string{"name", "address", "city", "state_province", "postal_code", "country", "latitude", "longitude"},
		pgx.CopyFromSlice(len(locs), func(i int) ([]any, error) {
			l := locs[i]
			return []any{l.Name, l.Address, l.City, l.StateProvince, l.PostalCode, l.Country, l.Latitude, l.Longitude}, nil
		}),
	)
	if err != nil {
		return 0, translate(err, "failed to copy locations")
	}
	return n, nil
}

// CountLocations returns the number of stored locations.
func (r *Repository) CountLocations(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return 0, translate(err, "failed to count locations")
	}
	return count, nil
}

// ListLocations returns every location.
func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	sql := `SELECT ` + locationColumns + ` FROM locations ORDER BY created_at`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, translate(err, "failed to query locations")
	}

	locations, err := collectLocations(rows)
	if err != nil {
		return nil, translate(err, "failed to scan locations")
	}
	return locations, nil
}

// GetLocation returns the location or nil when it does not exist.
func (r *Repository) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	sql := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, translate(err, "failed to get location")
	}
	return loc, nil
}

// UpdateLocationPoint stores new coordinates and returns the updated row, or nil when
// no row was updated.
func (r *Repository) UpdateLocationPoint(ctx context.Context, id uuid.UUID, point models.Point) (*models.Location, error) {
	sql := `
		UPDATE locations
		SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + locationColumns

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, id, point.Lat, point.Lon))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, translate(err, "failed to update location coordinates")
	}
	return loc, nil
}
