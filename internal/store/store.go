package store

import (
	"context"
	"time"

	"vms/api/internal/models"
)

// Mode labels reported by a backend and surfaced to clients through the
// health endpoint. The SPA renders its demo banner off this value.
const (
	ModeProduction = "production"
	ModeDemo       = "demo"
)

// Stats is the dashboard counter block.
type Stats struct {
	CurrentlyCheckedIn   int `json:"currently_checked_in"`
	TotalToday           int `json:"total_today"`
	TotalAllTime         int `json:"total_all_time"`
	UpcomingAppointments int `json:"upcoming_appointments"`
}

// Snapshot is a full export of every collection, used by backup jobs.
type Snapshot struct {
	TakenAt      time.Time            `json:"taken_at"`
	Mode         string               `json:"mode"`
	Visitors     []models.Visitor     `json:"visitors"`
	Appointments []models.Appointment `json:"appointments"`
	Users        []models.User        `json:"users"`
	Company      *models.Company      `json:"company,omitempty"`
}

// Store is the single data-access facade. Two implementations exist:
// postgres (live) and local (file-backed demo mode). One of them is
// selected at startup and injected everywhere; nothing else in the
// codebase branches on the backend.
type Store interface {
	Mode() string

	UserStore
	SessionStore
	VisitorStore
	AppointmentStore
	CompanyStore
	AuditStore

	DashboardStats(ctx context.Context, now time.Time) (Stats, error)
	Export(ctx context.Context) (Snapshot, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSessionByID(ctx context.Context, id string) (models.Session, error)
	FindSessionByRefreshHash(ctx context.Context, userID string, refreshHash []byte) (models.Session, error)
	UpdateSessionRefresh(ctx context.Context, id string, refreshHash []byte, expiresAt time.Time) error
	TouchSession(ctx context.Context, id string, ip string, userAgent string) error
	DeleteSession(ctx context.Context, id string) error
	TrimSessions(ctx context.Context, userID string, keepLatest int) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

type VisitorStore interface {
	CreateVisitor(ctx context.Context, visitor models.Visitor) error
	// ListVisitors returns every visitor, newest check-in first.
	ListVisitors(ctx context.Context) ([]models.Visitor, error)
	// ListVisitorsBetween returns visitors whose check-in falls in
	// [start, end], newest first.
	ListVisitorsBetween(ctx context.Context, start, end time.Time) ([]models.Visitor, error)
	GetVisitorByID(ctx context.Context, id string) (models.Visitor, error)
	// CheckOutVisitor flips a visitor to checked_out and stamps the
	// check-out time. Checking out a visitor that is already checked
	// out is a no-op: the stored record, including its original
	// check_out_time, is returned unchanged.
	CheckOutVisitor(ctx context.Context, id string, byUserID string, at time.Time) (models.Visitor, error)
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, appointment models.Appointment) error
	// ListAppointments returns every appointment, earliest scheduled first.
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (models.Appointment, error)
	// UpdateAppointmentStatus applies a status change after validating
	// it against the transition table.
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, error)
}

type CompanyStore interface {
	GetCompany(ctx context.Context) (models.Company, error)
	// SaveCompany upserts the singleton profile row.
	SaveCompany(ctx context.Context, company models.Company) (models.Company, error)
}

type AuditStore interface {
	AppendAudit(ctx context.Context, entry models.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)
}
