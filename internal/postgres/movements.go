package postgres

import (
	"context"
	"fmt"

	"github.com/carbase/dealership/internal/core"
)

const movementColumns = "id, car_id, date, from_location, to_location"

func (s *Store) InsertMovement(ctx context.Context, m *core.Movement) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO movements (car_id, date, from_location, to_location)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		m.CarID, m.Date, m.FromLocation, m.ToLocation,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (s *Store) ListCarMovements(ctx context.Context, carID int64) ([]core.Movement, error) {
	return s.queryMovements(ctx,
		"SELECT "+movementColumns+" FROM movements WHERE car_id = $1 ORDER BY date, id", carID)
}

func (s *Store) ListMovements(ctx context.Context, offset, limit int) ([]core.Movement, error) {
	query := "SELECT " + movementColumns + " FROM movements ORDER BY date DESC, id DESC"
	args := []interface{}{}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return s.queryMovements(ctx, query, args...)
}

func (s *Store) queryMovements(ctx context.Context, query string, args ...interface{}) ([]core.Movement, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []core.Movement
	for rows.Next() {
		var m core.Movement
		if err := rows.Scan(&m.ID, &m.CarID, &m.Date, &m.FromLocation, &m.ToLocation); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
