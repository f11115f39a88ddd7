package core

import "context"

// ListOperations returns a page of the operation log, most recent first,
// with an optional kind filter. Entries are append-only; nothing here
// mutates them.
func (s *Service) ListOperations(ctx context.Context, p ListOperationsParams) ([]Operation, error) {
	return s.store.ListOperations(ctx, p)
}
