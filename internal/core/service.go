package core

import (
	"time"
)

// Service is the entry point for all ledger, movement, sale, operation-log
// and report operations. It is safe for concurrent use as long as the
// underlying Store is.
type Service struct {
	store Store
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the service clock. Arrival-op timestamps, default
// movement timestamps and default sale dates come from this clock, which
// keeps time-dependent behavior testable.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by the given store. The default
// clock is time.Now in UTC.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
