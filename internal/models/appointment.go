package models

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// NormalizeAppointmentStatus maps accepted inputs onto the canonical
// vocabulary. "confirmed" survives as a legacy alias for "approved".
func NormalizeAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentPending, AppointmentApproved, AppointmentCompleted,
		AppointmentRejected, AppointmentCancelled:
		return AppointmentStatus(s), true
	}
	if s == "confirmed" {
		return AppointmentApproved, true
	}
	return "", false
}

type Appointment struct {
	ID              string
	VisitorName     string
	VisitorEmail    *string
	VisitorPhone    *string
	VisitorCompany  *string
	HostName        string
	HostEmail       string
	HostDepartment  *string
	ScheduledTime   time.Time
	DurationMinutes int
	Purpose         string
	Status          AppointmentStatus
	Notes           *string
	CreatedBy       string
	CreatedAt       time.Time
}
