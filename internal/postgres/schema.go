package postgres

import (
	"context"
	"fmt"
)

// schemaDDL creates the four tables on startup. Idempotent; prices are
// NUMERIC so decimal values round-trip exactly.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS buyers (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	phone      TEXT,
	email      TEXT
);

CREATE TABLE IF NOT EXISTS cars (
	id             BIGSERIAL PRIMARY KEY,
	vin            TEXT NOT NULL UNIQUE,
	model          TEXT NOT NULL,
	color          TEXT NOT NULL,
	purchase_price NUMERIC(14,2) NOT NULL,
	sale_price     NUMERIC(14,2),
	status         TEXT NOT NULL DEFAULT 'in_stock',
	location       TEXT NOT NULL DEFAULT 'warehouse',
	arrival_date   TIMESTAMPTZ NOT NULL,
	sale_date      TIMESTAMPTZ,
	buyer_id       BIGINT REFERENCES buyers(id)
);

CREATE INDEX IF NOT EXISTS idx_cars_status ON cars(status);
CREATE INDEX IF NOT EXISTS idx_cars_buyer ON cars(buyer_id);

CREATE TABLE IF NOT EXISTS movements (
	id            BIGSERIAL PRIMARY KEY,
	car_id        BIGINT NOT NULL REFERENCES cars(id),
	date          TIMESTAMPTZ NOT NULL,
	from_location TEXT NOT NULL,
	to_location   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_movements_car ON movements(car_id);

CREATE TABLE IF NOT EXISTS operations (
	id      BIGSERIAL PRIMARY KEY,
	car_id  BIGINT REFERENCES cars(id),
	kind    TEXT NOT NULL,
	date    TIMESTAMPTZ NOT NULL,
	details TEXT NOT NULL,
	actor   TEXT NOT NULL DEFAULT 'system'
);

CREATE INDEX IF NOT EXISTS idx_operations_car ON operations(car_id);
CREATE INDEX IF NOT EXISTS idx_operations_kind ON operations(kind);
`

// InitSchema creates the tables if they are missing.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
