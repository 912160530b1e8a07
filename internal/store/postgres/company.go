package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/store"
)

func (s *Store) GetCompany(ctx context.Context) (models.Company, error) {
	const query = `
		SELECT id, name, address, email, phone, website, logo_url, updated_at
		FROM company_settings
		LIMIT 1
	`

	var company models.Company
	row := s.pool.QueryRow(ctx, query)
	if err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Address,
		&company.Email,
		&company.Phone,
		&company.Website,
		&company.LogoURL,
		&company.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Company{}, store.ErrCompanyNotFound
		}
		return models.Company{}, err
	}
	return company, nil
}

func (s *Store) SaveCompany(ctx context.Context, company models.Company) (models.Company, error) {
	existing, err := s.GetCompany(ctx)
	switch {
	case err == nil:
		company.ID = existing.ID
		const query = `
			UPDATE company_settings
			SET name = $2, address = $3, email = $4, phone = $5, website = $6,
			    logo_url = $7, updated_at = NOW()
			WHERE id = $1
		`
		if _, err := s.pool.Exec(ctx, query,
			company.ID, company.Name, company.Address, company.Email,
			company.Phone, company.Website, company.LogoURL,
		); err != nil {
			return models.Company{}, err
		}
	case errors.Is(err, store.ErrCompanyNotFound):
		if company.ID == "" {
			company.ID = ids.New()
		}
		const query = `
			INSERT INTO company_settings (id, name, address, email, phone, website, logo_url, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		`
		if _, err := s.pool.Exec(ctx, query,
			company.ID, company.Name, company.Address, company.Email,
			company.Phone, company.Website, company.LogoURL,
		); err != nil {
			return models.Company{}, err
		}
	default:
		return models.Company{}, err
	}

	return s.GetCompany(ctx)
}

func (s *Store) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	const query = `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	const query = `
		SELECT id, user_id, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
