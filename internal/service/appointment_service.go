package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/store"
)

var ErrUnknownStatus = errors.New("unknown appointment status")

type AppointmentService struct {
	store store.Store
	audit *Auditor
	log   zerolog.Logger
}

func NewAppointmentService(st store.Store, audit *Auditor, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{store: st, audit: audit, log: log}
}

type AppointmentInput struct {
	VisitorName     string
	VisitorEmail    string
	VisitorPhone    string
	VisitorCompany  string
	HostName        string
	HostEmail       string
	HostDepartment  string
	ScheduledTime   time.Time
	DurationMinutes int
	Purpose         string
	Notes           string
}

// Create schedules an appointment. Status is forced to pending no
// matter what the caller sends.
func (s *AppointmentService) Create(ctx context.Context, input AppointmentInput, byUserID string) (models.Appointment, error) {
	if input.VisitorName == "" || input.ScheduledTime.IsZero() || input.Purpose == "" {
		return models.Appointment{}, ErrMissingFields
	}

	duration := input.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	appointment := models.Appointment{
		ID:              ids.New(),
		VisitorName:     input.VisitorName,
		HostName:        input.HostName,
		HostEmail:       input.HostEmail,
		ScheduledTime:   input.ScheduledTime,
		DurationMinutes: duration,
		Purpose:         input.Purpose,
		Status:          models.AppointmentPending,
		CreatedBy:       byUserID,
		CreatedAt:       time.Now(),
	}
	if input.VisitorEmail != "" {
		appointment.VisitorEmail = &input.VisitorEmail
	}
	if input.VisitorPhone != "" {
		appointment.VisitorPhone = &input.VisitorPhone
	}
	if input.VisitorCompany != "" {
		appointment.VisitorCompany = &input.VisitorCompany
	}
	if input.HostDepartment != "" {
		appointment.HostDepartment = &input.HostDepartment
	}
	if input.Notes != "" {
		appointment.Notes = &input.Notes
	}

	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return models.Appointment{}, err
	}

	s.audit.Record(ctx, byUserID, "appointment_created", "appointment", appointment.ID)
	return appointment, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	return s.store.ListAppointments(ctx)
}

// SetStatus normalizes the requested status ("confirmed" maps to
// "approved") and applies it through the transition table.
func (s *AppointmentService) SetStatus(ctx context.Context, id string, rawStatus string, byUserID string) (models.Appointment, error) {
	status, ok := models.NormalizeAppointmentStatus(rawStatus)
	if !ok {
		return models.Appointment{}, ErrUnknownStatus
	}

	appointment, err := s.store.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		return models.Appointment{}, err
	}

	s.audit.Record(ctx, byUserID, "appointment_"+string(status), "appointment", appointment.ID)
	return appointment, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, id string, byUserID string) (models.Appointment, error) {
	return s.SetStatus(ctx, id, string(models.AppointmentCancelled), byUserID)
}
