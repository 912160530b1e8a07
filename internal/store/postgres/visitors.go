package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"vms/api/internal/models"
	"vms/api/internal/store"
)

const visitorColumns = `id, full_name, email, phone, company, purpose, id_proof_type, id_proof_number,
	badge_number, status, check_in_time, check_out_time, checked_in_by, checked_out_by,
	host_name, host_department`

func scanVisitor(row pgx.Row) (models.Visitor, error) {
	var visitor models.Visitor
	err := row.Scan(
		&visitor.ID,
		&visitor.FullName,
		&visitor.Email,
		&visitor.Phone,
		&visitor.Company,
		&visitor.Purpose,
		&visitor.IDProofType,
		&visitor.IDProofNumber,
		&visitor.BadgeNumber,
		&visitor.Status,
		&visitor.CheckInTime,
		&visitor.CheckOutTime,
		&visitor.CheckedInBy,
		&visitor.CheckedOutBy,
		&visitor.HostName,
		&visitor.HostDepartment,
	)
	return visitor, err
}

func (s *Store) CreateVisitor(ctx context.Context, visitor models.Visitor) error {
	const query = `
		INSERT INTO visitors (
			id, full_name, email, phone, company, purpose, id_proof_type, id_proof_number,
			badge_number, status, check_in_time, check_out_time, checked_in_by, checked_out_by,
			host_name, host_department
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16
		)
	`

	_, err := s.pool.Exec(ctx, query,
		visitor.ID,
		visitor.FullName,
		visitor.Email,
		visitor.Phone,
		visitor.Company,
		visitor.Purpose,
		visitor.IDProofType,
		visitor.IDProofNumber,
		visitor.BadgeNumber,
		visitor.Status,
		visitor.CheckInTime,
		visitor.CheckOutTime,
		visitor.CheckedInBy,
		visitor.CheckedOutBy,
		visitor.HostName,
		visitor.HostDepartment,
	)
	return err
}

func (s *Store) ListVisitors(ctx context.Context) ([]models.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors ORDER BY check_in_time DESC`
	return s.queryVisitors(ctx, query)
}

func (s *Store) ListVisitorsBetween(ctx context.Context, start, end time.Time) ([]models.Visitor, error) {
	const query = `
		SELECT ` + visitorColumns + `
		FROM visitors
		WHERE check_in_time >= $1 AND check_in_time <= $2
		ORDER BY check_in_time DESC
	`
	return s.queryVisitors(ctx, query, start, end)
}

func (s *Store) queryVisitors(ctx context.Context, query string, args ...any) ([]models.Visitor, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []models.Visitor
	for rows.Next() {
		visitor, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}

func (s *Store) GetVisitorByID(ctx context.Context, id string) (models.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors WHERE id = $1`

	visitor, err := scanVisitor(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Visitor{}, store.ErrVisitorNotFound
		}
		return models.Visitor{}, err
	}
	return visitor, nil
}

func (s *Store) CheckOutVisitor(ctx context.Context, id string, byUserID string, at time.Time) (models.Visitor, error) {
	// The status guard makes repeat check-outs leave the row alone;
	// the original check_out_time is never overwritten.
	const query = `
		UPDATE visitors
		SET status = 'checked_out', check_out_time = $2, checked_out_by = $3
		WHERE id = $1 AND status = 'checked_in'
		RETURNING ` + visitorColumns

	visitor, err := scanVisitor(s.pool.QueryRow(ctx, query, id, at, byUserID))
	if err == nil {
		return visitor, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Visitor{}, err
	}

	// Either the id is unknown or the visitor was already checked out.
	return s.GetVisitorByID(ctx, id)
}
