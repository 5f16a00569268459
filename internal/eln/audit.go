package eln

import (
	"context"

	"nanoeln/pkg/domain"
)

// AddAuditEntry prepends an entry to the audit trail. The id and timestamp
// are always generated; user fields default to the configured actor.
func (s *Store) AddAuditEntry(ctx context.Context, entry domain.AuditLogEntry) (domain.AuditLogEntry, error) {
	if err := required(domain.EntityAuditEntry, "action", entry.Action); err != nil {
		return domain.AuditLogEntry{}, err
	}
	var created domain.AuditLogEntry
	err := s.mutate(ctx, "add_audit_entry", func(tx *txn) error {
		entry.ID = tx.newID("audit")
		entry.Timestamp = tx.now
		if entry.UserID == "" {
			entry.UserID = s.actor.ID
		}
		if entry.UserName == "" {
			entry.UserName = s.actor.Name
		}
		entry = cloneAuditEntry(entry)
		tx.state.audit = append([]domain.AuditLogEntry{entry}, tx.state.audit...)
		tx.touch(domain.KeyAuditLog)
		created = cloneAuditEntry(entry)
		return nil
	})
	if err != nil {
		return domain.AuditLogEntry{}, err
	}
	return created, nil
}
