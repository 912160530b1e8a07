package reports

import (
	"fmt"
	"time"

	"vms/api/internal/models"
	"vms/api/internal/store"
)

// Dashboard computes the counter block over full visitor and appointment
// listings. Results do not depend on the order of either slice.
func Dashboard(visitors []models.Visitor, appointments []models.Appointment, now time.Time) store.Stats {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := store.Stats{TotalAllTime: len(visitors)}
	for _, v := range visitors {
		if v.Status == models.VisitorCheckedIn {
			stats.CurrentlyCheckedIn++
		}
		if !v.CheckInTime.Before(midnight) {
			stats.TotalToday++
		}
	}
	for _, a := range appointments {
		if a.ScheduledTime.After(now) && Upcoming(a.Status) {
			stats.UpcomingAppointments++
		}
	}
	return stats
}

// Upcoming reports whether an appointment status still counts toward the
// upcoming bucket.
func Upcoming(status models.AppointmentStatus) bool {
	return status == models.AppointmentPending || status == models.AppointmentApproved
}

// VisitStats is the derived block attached to a visitor report window.
type VisitStats struct {
	TotalVisitors     int    `json:"total_visitors"`
	AvgVisitDuration  string `json:"avg_visit_duration"`
	BusiestHour       string `json:"busiest_hour"`
	PeakDay           string `json:"peak_day"`
	MostCommonPurpose string `json:"most_common_purpose"`
}

// Visits derives report statistics from the visitors inside a window.
// Peak-day and purpose ties keep the first value encountered in slice
// order; busiest-hour ties go to the lowest hour.
func Visits(visitors []models.Visitor) VisitStats {
	stats := VisitStats{
		TotalVisitors:     len(visitors),
		AvgVisitDuration:  "N/A",
		BusiestHour:       "N/A",
		PeakDay:           "N/A",
		MostCommonPurpose: "N/A",
	}
	if len(visitors) == 0 {
		return stats
	}

	var (
		totalDuration time.Duration
		completed     int
		hourCounts    [24]int
		dayCounts     = map[string]int{}
		dayOrder      []string
		purposeCounts = map[string]int{}
		purposeOrder  []string
	)

	for _, v := range visitors {
		if v.CheckOutTime != nil {
			totalDuration += v.CheckOutTime.Sub(v.CheckInTime)
			completed++
		}

		hourCounts[v.CheckInTime.Hour()]++

		day := v.CheckInTime.Format("1/2/2006")
		if _, seen := dayCounts[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		dayCounts[day]++

		purpose := v.Purpose
		if purpose == "" {
			purpose = "Not specified"
		}
		if _, seen := purposeCounts[purpose]; !seen {
			purposeOrder = append(purposeOrder, purpose)
		}
		purposeCounts[purpose]++
	}

	if completed > 0 {
		stats.AvgVisitDuration = FormatDuration(totalDuration / time.Duration(completed))
	}

	busiest := 0
	for hour, count := range hourCounts {
		if count > hourCounts[busiest] {
			busiest = hour
		}
	}
	stats.BusiestHour = fmt.Sprintf("%d:00 - %d:00", busiest, busiest+1)

	stats.PeakDay = maxByOrder(dayCounts, dayOrder)
	stats.MostCommonPurpose = maxByOrder(purposeCounts, purposeOrder)

	return stats
}

// FormatDuration renders a duration as whole hours and minutes, e.g.
// "1h 30m". Seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// DurationLabel renders a visitor's visit length, or "N/A" while the
// visit is still open.
func DurationLabel(v models.Visitor) string {
	if v.CheckOutTime == nil {
		return "N/A"
	}
	return FormatDuration(v.CheckOutTime.Sub(v.CheckInTime))
}

func maxByOrder(counts map[string]int, order []string) string {
	best := ""
	for _, key := range order {
		if best == "" || counts[key] > counts[best] {
			best = key
		}
	}
	if best == "" {
		return "N/A"
	}
	return best
}
