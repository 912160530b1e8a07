package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"vms/api/internal/storage"
	"vms/api/internal/store"
)

// ErrStorageUnavailable is returned when no object store is configured.
var ErrStorageUnavailable = errors.New("object storage unavailable")

type BackupService struct {
	store   store.Store
	objects *storage.ObjectStore
	audit   *Auditor
	log     zerolog.Logger
}

func NewBackupService(st store.Store, objects *storage.ObjectStore, audit *Auditor, log zerolog.Logger) *BackupService {
	return &BackupService{store: st, objects: objects, audit: audit, log: log}
}

// Run exports every collection as one JSON snapshot object and returns
// its key.
func (s *BackupService) Run(ctx context.Context, byUserID string) (string, error) {
	if s.objects == nil {
		return "", ErrStorageUnavailable
	}

	snapshot, err := s.store.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key, err := s.objects.PutBackup(ctx, snapshot.TakenAt, payload)
	if err != nil {
		return "", err
	}

	if byUserID != "" {
		s.audit.Record(ctx, byUserID, "backup_created", "backup", key)
	}

	s.log.Info().Str("key", key).Int("bytes", len(payload)).Msg("backup snapshot stored")
	return key, nil
}

func (s *BackupService) List(ctx context.Context) ([]storage.BackupObject, error) {
	if s.objects == nil {
		return nil, ErrStorageUnavailable
	}
	return s.objects.ListBackups(ctx)
}
