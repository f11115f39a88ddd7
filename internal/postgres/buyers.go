package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carbase/dealership/internal/core"
)

func (s *Store) InsertBuyer(ctx context.Context, b *core.Buyer) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO buyers (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING id`,
		b.Name, b.Phone, b.Email,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert buyer: %w", err)
	}
	return nil
}

// GetBuyerByName resolves a buyer by exact name. When historical data holds
// several rows with the same name the earliest one wins.
func (s *Store) GetBuyerByName(ctx context.Context, name string) (*core.Buyer, error) {
	var b core.Buyer
	err := s.db.QueryRow(ctx,
		"SELECT id, name, phone, email FROM buyers WHERE name = $1 ORDER BY id LIMIT 1", name,
	).Scan(&b.ID, &b.Name, &b.Phone, &b.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrBuyerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buyer %q: %w", name, err)
	}
	return &b, nil
}

func (s *Store) ListBuyers(ctx context.Context, offset, limit int) ([]core.Buyer, error) {
	query := "SELECT id, name, phone, email FROM buyers ORDER BY id"
	args := []interface{}{}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	var buyers []core.Buyer
	for rows.Next() {
		var b core.Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.Email); err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		buyers = append(buyers, b)
	}
	return buyers, rows.Err()
}
