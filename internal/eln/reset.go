package eln

import (
	"context"

	"go.uber.org/zap"

	"nanoeln/pkg/domain"
)

// ResetData replaces all six collections with the seed dataset. It writes
// no audit entry.
func (s *Store) ResetData(ctx context.Context) error {
	err := s.mutate(ctx, "reset_data", func(tx *txn) error {
		tx.state = stateFromSeed(s.seedFn())
		tx.touch(domain.CollectionKeys...)
		return nil
	})
	if err == nil {
		s.logger.Info("lab data reset to seed")
	} else {
		s.logger.Error("reset failed", zap.Error(err))
	}
	return err
}
