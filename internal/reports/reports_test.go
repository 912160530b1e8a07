package reports

import (
	"testing"
	"time"

	"vms/api/internal/models"
)

func visitorAt(checkIn time.Time, purpose string) models.Visitor {
	return models.Visitor{
		ID:          "v-" + checkIn.Format("150405"),
		FullName:    "Test Visitor",
		Purpose:     purpose,
		Status:      models.VisitorCheckedIn,
		CheckInTime: checkIn,
	}
}

func checkedOut(v models.Visitor, after time.Duration) models.Visitor {
	out := v.CheckInTime.Add(after)
	v.Status = models.VisitorCheckedOut
	v.CheckOutTime = &out
	return v
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	yesterday := now.Add(-24 * time.Hour)

	visitors := []models.Visitor{
		visitorAt(now.Add(-2*time.Hour), "Meeting"),
		checkedOut(visitorAt(now.Add(-4*time.Hour), "Delivery"), time.Hour),
		checkedOut(visitorAt(yesterday, "Interview"), 30*time.Minute),
	}
	appointments := []models.Appointment{
		{Status: models.AppointmentPending, ScheduledTime: now.Add(2 * time.Hour)},
		{Status: models.AppointmentApproved, ScheduledTime: now.Add(26 * time.Hour)},
		{Status: models.AppointmentCancelled, ScheduledTime: now.Add(3 * time.Hour)},
		{Status: models.AppointmentApproved, ScheduledTime: now.Add(-time.Hour)},
	}

	stats := Dashboard(visitors, appointments, now)

	if stats.CurrentlyCheckedIn != 1 {
		t.Errorf("CurrentlyCheckedIn = %d, want 1", stats.CurrentlyCheckedIn)
	}
	if stats.TotalToday != 2 {
		t.Errorf("TotalToday = %d, want 2", stats.TotalToday)
	}
	if stats.TotalAllTime != 3 {
		t.Errorf("TotalAllTime = %d, want 3", stats.TotalAllTime)
	}
	// Only future pending/approved count; cancelled and past do not.
	if stats.UpcomingAppointments != 2 {
		t.Errorf("UpcomingAppointments = %d, want 2", stats.UpcomingAppointments)
	}
}

func TestDashboardOrderInvariant(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	visitors := []models.Visitor{
		visitorAt(now.Add(-1*time.Hour), "A"),
		visitorAt(now.Add(-3*time.Hour), "B"),
		checkedOut(visitorAt(now.Add(-30*time.Hour), "C"), time.Hour),
	}

	forward := Dashboard(visitors, nil, now)
	reversed := Dashboard([]models.Visitor{visitors[2], visitors[1], visitors[0]}, nil, now)

	if forward != reversed {
		t.Errorf("stats depend on input order: %+v vs %+v", forward, reversed)
	}
}

func TestVisitsEmpty(t *testing.T) {
	stats := Visits(nil)

	if stats.TotalVisitors != 0 {
		t.Errorf("TotalVisitors = %d, want 0", stats.TotalVisitors)
	}
	for name, got := range map[string]string{
		"AvgVisitDuration":  stats.AvgVisitDuration,
		"BusiestHour":       stats.BusiestHour,
		"PeakDay":           stats.PeakDay,
		"MostCommonPurpose": stats.MostCommonPurpose,
	} {
		if got != "N/A" {
			t.Errorf("%s = %q, want N/A", name, got)
		}
	}
}

func TestVisits(t *testing.T) {
	day1 := time.Date(2026, 3, 9, 9, 15, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	visitors := []models.Visitor{
		checkedOut(visitorAt(day1, "Meeting"), time.Hour),
		checkedOut(visitorAt(day1.Add(10*time.Minute), "Meeting"), 2*time.Hour),
		visitorAt(day2, "Delivery"),
	}

	stats := Visits(visitors)

	if stats.TotalVisitors != 3 {
		t.Errorf("TotalVisitors = %d, want 3", stats.TotalVisitors)
	}
	// Open visits are excluded from the average: (1h + 2h) / 2.
	if stats.AvgVisitDuration != "1h 30m" {
		t.Errorf("AvgVisitDuration = %q, want 1h 30m", stats.AvgVisitDuration)
	}
	if stats.BusiestHour != "9:00 - 10:00" {
		t.Errorf("BusiestHour = %q, want 9:00 - 10:00", stats.BusiestHour)
	}
	if stats.PeakDay != "3/9/2026" {
		t.Errorf("PeakDay = %q, want 3/9/2026", stats.PeakDay)
	}
	if stats.MostCommonPurpose != "Meeting" {
		t.Errorf("MostCommonPurpose = %q, want Meeting", stats.MostCommonPurpose)
	}
}

func TestVisitsBusiestHourTieGoesToLowestHour(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	visitors := []models.Visitor{
		visitorAt(day.Add(16*time.Hour), "A"),
		visitorAt(day.Add(9*time.Hour), "B"),
	}

	stats := Visits(visitors)
	if stats.BusiestHour != "9:00 - 10:00" {
		t.Errorf("BusiestHour = %q, want 9:00 - 10:00", stats.BusiestHour)
	}
}

func TestVisitsNoCompletedVisits(t *testing.T) {
	stats := Visits([]models.Visitor{
		visitorAt(time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local), "Meeting"),
	})
	if stats.AvgVisitDuration != "N/A" {
		t.Errorf("AvgVisitDuration = %q, want N/A", stats.AvgVisitDuration)
	}
}

func TestVisitsBlankPurpose(t *testing.T) {
	stats := Visits([]models.Visitor{
		visitorAt(time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local), ""),
	})
	if stats.MostCommonPurpose != "Not specified" {
		t.Errorf("MostCommonPurpose = %q, want Not specified", stats.MostCommonPurpose)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{45 * time.Minute, "0h 45m"},
		{90 * time.Minute, "1h 30m"},
		{25 * time.Hour, "25h 0m"},
		{time.Hour + 59*time.Second, "1h 0m"},
		{-time.Hour, "0h 0m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	open := visitorAt(time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local), "Meeting")
	if got := DurationLabel(open); got != "N/A" {
		t.Errorf("open visit label = %q, want N/A", got)
	}

	closed := checkedOut(open, 95*time.Minute)
	if got := DurationLabel(closed); got != "1h 35m" {
		t.Errorf("closed visit label = %q, want 1h 35m", got)
	}
}
