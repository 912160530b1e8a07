package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/store"
)

// Auditor appends audit trail entries. A failed append is logged and
// swallowed; audit must never fail the operation it describes.
type Auditor struct {
	store store.AuditStore
	log   zerolog.Logger
}

func NewAuditor(st store.AuditStore, log zerolog.Logger) *Auditor {
	return &Auditor{store: st, log: log}
}

func (a *Auditor) Record(ctx context.Context, userID, action, entityType, entityID string) {
	entry := models.AuditEntry{
		ID:         ids.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
	if err := a.store.AppendAudit(ctx, entry); err != nil {
		a.log.Warn().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Msg("audit append failed")
	}
}
