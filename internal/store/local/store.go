// Package local implements the storage facade on top of JSON files in a
// data directory. It stands in for PostgreSQL when the live backend is
// unreachable at startup ("demo mode") and backs the handler tests.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/reports"
	"vms/api/internal/store"
)

const (
	visitorsFile     = "visitors.json"
	appointmentsFile = "appointments.json"
	usersFile        = "users.json"
	sessionsFile     = "sessions.json"
	companyFile      = "company.json"
	auditFile        = "audit.json"
)

type Store struct {
	dir string

	// One lock covers every collection. Read-modify-write sequences
	// (check-out, status changes, upserts) must not interleave.
	mu sync.RWMutex

	visitors     []models.Visitor
	appointments []models.Appointment
	users        []models.User
	sessions     []models.Session
	company      *models.Company
	audit        []models.AuditEntry
}

func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dataDir}

	if err := s.load(visitorsFile, &s.visitors); err != nil {
		return nil, err
	}
	if err := s.load(appointmentsFile, &s.appointments); err != nil {
		return nil, err
	}
	if err := s.load(usersFile, &s.users); err != nil {
		return nil, err
	}
	if err := s.load(sessionsFile, &s.sessions); err != nil {
		return nil, err
	}
	if err := s.load(companyFile, &s.company); err != nil {
		return nil, err
	}
	if err := s.load(auditFile, &s.audit); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) Mode() string { return store.ModeDemo }

func (s *Store) load(name string, dst any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// save writes a collection through a temp file and renames it into
// place, so a crash mid-write never truncates existing data.
func (s *Store) save(name string, src any) error {
	raw, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailTaken
		}
	}

	s.users = append(s.users, user)
	return s.save(usersFile, s.users)
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, len(s.users))
	copy(users, s.users)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// ---- sessions ----

func (s *Store) CreateSession(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, session)
	return s.save(sessionsFile, s.sessions)
}

func (s *Store) GetSessionByID(_ context.Context, id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (s *Store) FindSessionByRefreshHash(_ context.Context, userID string, refreshHash []byte) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.UserID == userID && bytes.Equal(sess.RefreshTokenHash, refreshHash) {
			return sess, nil
		}
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (s *Store) UpdateSessionRefresh(_ context.Context, id string, refreshHash []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].RefreshTokenHash = refreshHash
			s.sessions[i].ExpiresAt = expiresAt
			s.sessions[i].LastSeenAt = time.Now()
			return s.save(sessionsFile, s.sessions)
		}
	}
	return store.ErrSessionNotFound
}

func (s *Store) TouchSession(_ context.Context, id string, ip string, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].LastSeenAt = time.Now()
			if ip != "" {
				s.sessions[i].IPAddress = ip
			}
			if userAgent != "" {
				s.sessions[i].UserAgent = userAgent
			}
			return s.save(sessionsFile, s.sessions)
		}
	}
	return store.ErrSessionNotFound
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return s.save(sessionsFile, s.sessions)
		}
	}
	return store.ErrSessionNotFound
}

func (s *Store) TrimSessions(_ context.Context, userID string, keepLatest int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []int
	for i, sess := range s.sessions {
		if sess.UserID == userID {
			owned = append(owned, i)
		}
	}
	if len(owned) <= keepLatest {
		return nil
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return s.sessions[owned[i]].LastSeenAt.After(s.sessions[owned[j]].LastSeenAt)
	})

	drop := map[int]bool{}
	for _, idx := range owned[keepLatest:] {
		drop[idx] = true
	}

	kept := s.sessions[:0]
	for i, sess := range s.sessions {
		if !drop[i] {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	return s.save(sessionsFile, s.sessions)
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	removed := 0
	for _, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(sessionsFile, s.sessions)
}

// ---- visitors ----

func (s *Store) CreateVisitor(_ context.Context, visitor models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visitors = append(s.visitors, visitor)
	return s.save(visitorsFile, s.visitors)
}

func (s *Store) ListVisitors(_ context.Context) ([]models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedVisitors(s.visitors, nil), nil
}

func (s *Store) ListVisitorsBetween(_ context.Context, start, end time.Time) ([]models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inRange := func(v models.Visitor) bool {
		return !v.CheckInTime.Before(start) && !v.CheckInTime.After(end)
	}
	return sortedVisitors(s.visitors, inRange), nil
}

func sortedVisitors(src []models.Visitor, keep func(models.Visitor) bool) []models.Visitor {
	visitors := make([]models.Visitor, 0, len(src))
	for _, v := range src {
		if keep == nil || keep(v) {
			visitors = append(visitors, v)
		}
	}
	sort.SliceStable(visitors, func(i, j int) bool {
		return visitors[i].CheckInTime.After(visitors[j].CheckInTime)
	})
	return visitors
}

func (s *Store) GetVisitorByID(_ context.Context, id string) (models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.visitors {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Visitor{}, store.ErrVisitorNotFound
}

func (s *Store) CheckOutVisitor(_ context.Context, id string, byUserID string, at time.Time) (models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.visitors {
		if s.visitors[i].ID != id {
			continue
		}
		if s.visitors[i].Status == models.VisitorCheckedOut {
			// Repeat check-out keeps the original timestamp.
			return s.visitors[i], nil
		}
		s.visitors[i].Status = models.VisitorCheckedOut
		s.visitors[i].CheckOutTime = &at
		s.visitors[i].CheckedOutBy = &byUserID
		if err := s.save(visitorsFile, s.visitors); err != nil {
			return models.Visitor{}, err
		}
		return s.visitors[i], nil
	}
	return models.Visitor{}, store.ErrVisitorNotFound
}

// ---- appointments ----

func (s *Store) CreateAppointment(_ context.Context, appointment models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments = append(s.appointments, appointment)
	return s.save(appointmentsFile, s.appointments)
}

func (s *Store) ListAppointments(_ context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointments := make([]models.Appointment, len(s.appointments))
	copy(appointments, s.appointments)
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].ScheduledTime.Before(appointments[j].ScheduledTime)
	})
	return appointments, nil
}

func (s *Store) GetAppointmentByID(_ context.Context, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, store.ErrAppointmentNotFound
}

func (s *Store) UpdateAppointmentStatus(_ context.Context, id string, status models.AppointmentStatus) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		if !store.ValidStatusChange(s.appointments[i].Status, status) {
			return models.Appointment{}, store.ErrInvalidTransition
		}
		s.appointments[i].Status = status
		if err := s.save(appointmentsFile, s.appointments); err != nil {
			return models.Appointment{}, err
		}
		return s.appointments[i], nil
	}
	return models.Appointment{}, store.ErrAppointmentNotFound
}

// ---- company ----

func (s *Store) GetCompany(_ context.Context) (models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.company == nil {
		return models.Company{}, store.ErrCompanyNotFound
	}
	return *s.company, nil
}

func (s *Store) SaveCompany(_ context.Context, company models.Company) (models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.company != nil {
		company.ID = s.company.ID
	} else if company.ID == "" {
		company.ID = ids.New()
	}
	company.UpdatedAt = time.Now()
	s.company = &company
	if err := s.save(companyFile, s.company); err != nil {
		return models.Company{}, err
	}
	return company, nil
}

// ---- audit ----

func (s *Store) AppendAudit(_ context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, entry)
	return s.save(auditFile, s.audit)
}

func (s *Store) ListAudit(_ context.Context, limit int) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.AuditEntry, len(s.audit))
	copy(entries, s.audit)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ---- aggregation / export ----

func (s *Store) DashboardStats(ctx context.Context, now time.Time) (store.Stats, error) {
	s.mu.RLock()
	visitors := make([]models.Visitor, len(s.visitors))
	copy(visitors, s.visitors)
	appointments := make([]models.Appointment, len(s.appointments))
	copy(appointments, s.appointments)
	s.mu.RUnlock()

	return reports.Dashboard(visitors, appointments, now), nil
}

func (s *Store) Export(_ context.Context) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := store.Snapshot{
		TakenAt:      time.Now().UTC(),
		Mode:         store.ModeDemo,
		Visitors:     append([]models.Visitor(nil), s.visitors...),
		Appointments: append([]models.Appointment(nil), s.appointments...),
		Users:        append([]models.User(nil), s.users...),
	}
	if s.company != nil {
		c := *s.company
		snapshot.Company = &c
	}
	return snapshot, nil
}
