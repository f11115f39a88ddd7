package postgres

import (
	"context"
	"fmt"

	"github.com/carbase/dealership/internal/core"
)

func (s *Store) InsertOperation(ctx context.Context, op *core.Operation) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO operations (car_id, kind, date, details, actor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		op.CarID, string(op.Kind), op.Date, op.Details, op.Actor,
	).Scan(&op.ID)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

func (s *Store) ListOperations(ctx context.Context, p core.ListOperationsParams) ([]core.Operation, error) {
	query := "SELECT id, car_id, kind, date, details, actor FROM operations"
	args := []interface{}{}
	if p.Kind != nil {
		args = append(args, string(*p.Kind))
		query += fmt.Sprintf(" WHERE kind = $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"
	if p.Limit > 0 {
		args = append(args, p.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if p.Offset > 0 {
		args = append(args, p.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []core.Operation
	for rows.Next() {
		var (
			op   core.Operation
			kind string
		)
		if err := rows.Scan(&op.ID, &op.CarID, &kind, &op.Date, &op.Details, &op.Actor); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Kind = core.OperationKind(kind)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
