// Package registry is the entry point used by request handling code: it
// validates input, drives the orm entities inside transactions and classifies
// every failure as a ServiceError.
package registry

import (
	"context"
	"errors"
	"time"

	"primer-registry/archive"
	"primer-registry/orm"
)

type Service struct {
	db      *orm.DB
	archive archive.Archive
	metrics *Metrics
	strict  bool
}

// Option configures a Service.
type Option func(*Service)

// WithArchive sets the backend primer sets are exported to.
func WithArchive(a archive.Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithMetrics records every operation in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStrictSequences rejects primer sequences that are empty or contain
// characters outside the IUPAC DNA alphabet.
func WithStrictSequences(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// NewService creates a new service on top of db
func NewService(db *orm.DB, opts ...Option) *Service {
	s := &Service{db: db}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	s.metrics.Observe(operation, *err, time.Since(start))
}

// geneOrNew loads the gene or returns an unsaved one with an empty sequence.
func geneOrNew(ctx context.Context, tx *orm.DB, geneID string) (*orm.Gene, error) {
	gene, err := orm.LoadGene(ctx, tx, geneID)
	if err == nil {
		return gene, nil
	}

	var notFoundErr *orm.NotFoundError
	if errors.As(err, &notFoundErr) {
		return orm.NewGene(geneID, ""), nil
	}

	return nil, err
}
