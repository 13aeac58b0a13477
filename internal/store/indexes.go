package store

import (
	"context"

	"github.com/roach88/epsql/internal/querysql"
)

// CreateIndexes adds the optional read indexes. Failures are logged and
// skipped; the names of the indexes that were applied are returned.
func (s *Store) CreateIndexes(ctx context.Context) []string {
	applied := []string{}
	for _, idx := range querysql.Indexes {
		if _, err := s.db.ExecContext(ctx, idx.Create()); err != nil {
			s.logger.Warn("create index failed", "index", idx.Name, "table", idx.Table, "error", err)
			continue
		}
		applied = append(applied, idx.Name)
	}
	return applied
}

// RemoveIndexes drops the optional read indexes. Failures are logged and
// skipped; the names of the indexes that were dropped are returned.
func (s *Store) RemoveIndexes(ctx context.Context) []string {
	dropped := []string{}
	for _, idx := range querysql.Indexes {
		if _, err := s.db.ExecContext(ctx, idx.Drop()); err != nil {
			s.logger.Warn("remove index failed", "index", idx.Name, "error", err)
			continue
		}
		dropped = append(dropped, idx.Name)
	}
	return dropped
}
