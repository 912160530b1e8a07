// Package postgres implements the storage facade against a pgx
// connection pool. This is the live backend; the schema lives in the
// embedded migrations under internal/database.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vms/api/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Mode() string { return store.ModeProduction }

func (s *Store) DashboardStats(ctx context.Context, now time.Time) (store.Stats, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	const query = `
		SELECT
			(SELECT COUNT(*) FROM visitors WHERE status = 'checked_in'),
			(SELECT COUNT(*) FROM visitors WHERE check_in_time >= $1),
			(SELECT COUNT(*) FROM visitors),
			(SELECT COUNT(*) FROM appointments
				WHERE scheduled_time > $2 AND status IN ('pending', 'approved'))
	`

	var stats store.Stats
	row := s.pool.QueryRow(ctx, query, midnight, now)
	if err := row.Scan(
		&stats.CurrentlyCheckedIn,
		&stats.TotalToday,
		&stats.TotalAllTime,
		&stats.UpcomingAppointments,
	); err != nil {
		return store.Stats{}, err
	}
	return stats, nil
}

func (s *Store) Export(ctx context.Context) (store.Snapshot, error) {
	visitors, err := s.ListVisitors(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	appointments, err := s.ListAppointments(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}

	snapshot := store.Snapshot{
		TakenAt:      time.Now().UTC(),
		Mode:         store.ModeProduction,
		Visitors:     visitors,
		Appointments: appointments,
		Users:        users,
	}

	company, err := s.GetCompany(ctx)
	switch err {
	case nil:
		snapshot.Company = &company
	case store.ErrCompanyNotFound:
	default:
		return store.Snapshot{}, err
	}

	return snapshot, nil
}

var _ store.Store = (*Store)(nil)
