package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"vms/api/internal/models"
	"vms/api/internal/store"
)

const appointmentColumns = `id, visitor_name, visitor_email, visitor_phone, visitor_company,
	host_name, host_email, host_department, scheduled_time, duration_minutes,
	purpose, status, notes, created_by, created_at`

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var appointment models.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.VisitorName,
		&appointment.VisitorEmail,
		&appointment.VisitorPhone,
		&appointment.VisitorCompany,
		&appointment.HostName,
		&appointment.HostEmail,
		&appointment.HostDepartment,
		&appointment.ScheduledTime,
		&appointment.DurationMinutes,
		&appointment.Purpose,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedBy,
		&appointment.CreatedAt,
	)
	return appointment, err
}

func (s *Store) CreateAppointment(ctx context.Context, appointment models.Appointment) error {
	const query = `
		INSERT INTO appointments (
			id, visitor_name, visitor_email, visitor_phone, visitor_company,
			host_name, host_email, host_department, scheduled_time, duration_minutes,
			purpose, status, notes, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		)
	`

	_, err := s.pool.Exec(ctx, query,
		appointment.ID,
		appointment.VisitorName,
		appointment.VisitorEmail,
		appointment.VisitorPhone,
		appointment.VisitorCompany,
		appointment.HostName,
		appointment.HostEmail,
		appointment.HostDepartment,
		appointment.ScheduledTime,
		appointment.DurationMinutes,
		appointment.Purpose,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedBy,
		appointment.CreatedAt,
	)
	return err
}

func (s *Store) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY scheduled_time ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

func (s *Store) GetAppointmentByID(ctx context.Context, id string) (models.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appointment, err := scanAppointment(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Appointment{}, store.ErrAppointmentNotFound
		}
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, error) {
	current, err := s.GetAppointmentByID(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if !store.ValidStatusChange(current.Status, status) {
		return models.Appointment{}, store.ErrInvalidTransition
	}

	// The WHERE clause re-checks the source status so a concurrent
	// writer cannot slip an invalid transition through.
	const query = `
		UPDATE appointments
		SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING ` + appointmentColumns

	appointment, err := scanAppointment(s.pool.QueryRow(ctx, query, id, status, current.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Appointment{}, store.ErrInvalidTransition
		}
		return models.Appointment{}, err
	}
	return appointment, nil
}
