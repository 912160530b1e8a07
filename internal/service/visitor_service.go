package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/reports"
	"vms/api/internal/security"
	"vms/api/internal/store"
)

type VisitorService struct {
	store store.Store
	audit *Auditor
	log   zerolog.Logger
}

func NewVisitorService(st store.Store, audit *Auditor, log zerolog.Logger) *VisitorService {
	return &VisitorService{store: st, audit: audit, log: log}
}

type CheckInInput struct {
	FullName       string
	Email          string
	Phone          string
	Company        string
	Purpose        string
	IDProofType    string
	IDProofNumber  string
	HostName       string
	HostDepartment string
}

var ErrMissingFields = errors.New("missing required fields")

// CheckIn creates a visitor record with a fresh badge. Status is always
// checked_in and the check-out time starts null; only CheckOut may flip
// them, exactly once.
func (s *VisitorService) CheckIn(ctx context.Context, input CheckInInput, byUserID string) (models.Visitor, error) {
	if input.FullName == "" || input.Email == "" || input.Phone == "" ||
		input.Purpose == "" || input.IDProofType == "" || input.IDProofNumber == "" {
		return models.Visitor{}, ErrMissingFields
	}

	badge, err := security.NewBadgeNumber()
	if err != nil {
		return models.Visitor{}, err
	}

	visitor := models.Visitor{
		ID:            ids.New(),
		FullName:      input.FullName,
		Email:         input.Email,
		Phone:         input.Phone,
		Purpose:       input.Purpose,
		IDProofType:   input.IDProofType,
		IDProofNumber: input.IDProofNumber,
		BadgeNumber:   badge,
		Status:        models.VisitorCheckedIn,
		CheckInTime:   time.Now(),
		CheckedInBy:   byUserID,
	}
	if input.Company != "" {
		visitor.Company = &input.Company
	}
	if input.HostName != "" {
		visitor.HostName = &input.HostName
	}
	if input.HostDepartment != "" {
		visitor.HostDepartment = &input.HostDepartment
	}

	if err := s.store.CreateVisitor(ctx, visitor); err != nil {
		return models.Visitor{}, err
	}

	s.audit.Record(ctx, byUserID, "visitor_checkin", "visitor", visitor.ID)
	return visitor, nil
}

func (s *VisitorService) List(ctx context.Context) ([]models.Visitor, error) {
	return s.store.ListVisitors(ctx)
}

func (s *VisitorService) CheckOut(ctx context.Context, visitorID string, byUserID string) (models.Visitor, error) {
	visitor, err := s.store.CheckOutVisitor(ctx, visitorID, byUserID, time.Now())
	if err != nil {
		return models.Visitor{}, err
	}

	s.audit.Record(ctx, byUserID, "visitor_checkout", "visitor", visitor.ID)
	return visitor, nil
}

// VisitorReport is the report window payload: the visitors themselves
// plus the derived statistics block.
type VisitorReport struct {
	Visitors []models.Visitor
	Stats    reports.VisitStats
}

// Report widens the requested dates to whole calendar days, matching
// the SPA's date pickers.
func (s *VisitorService) Report(ctx context.Context, start, end time.Time) (VisitorReport, error) {
	windowStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	windowEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), end.Location())

	visitors, err := s.store.ListVisitorsBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return VisitorReport{}, err
	}

	return VisitorReport{
		Visitors: visitors,
		Stats:    reports.Visits(visitors),
	}, nil
}
