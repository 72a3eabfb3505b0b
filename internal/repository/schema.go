package repository

import (
	"context"
	"fmt"
)

// Schema creates the locations and work_orders tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT,
	address TEXT,
	city TEXT,
	state_province TEXT,
	postal_code TEXT,
	country TEXT DEFAULT 'USA',
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT locations_coordinates_paired CHECK ((latitude IS NULL) = (longitude IS NULL))
);
CREATE INDEX IF NOT EXISTS locations_address_idx ON locations (address, city, state_province);

CREATE TABLE IF NOT EXISTS work_orders (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'Open'
		CHECK (status IN ('Open', 'In Progress', 'Completed', 'Cancelled', 'On Hold')),
	priority TEXT NOT NULL DEFAULT 'Medium'
		CHECK (priority IN ('Low', 'Medium', 'High')),
	location_id UUID REFERENCES locations (id),
	assigned_to_user_id UUID,
	created_by_user_id UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS work_orders_status_idx ON work_orders (status);
CREATE INDEX IF NOT EXISTS work_orders_assigned_idx ON work_orders (assigned_to_user_id);
`

// EnsureSchema creates the tables when they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}
