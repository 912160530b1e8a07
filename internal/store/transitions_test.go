package store

import (
	"testing"

	"vms/api/internal/models"
)

func TestValidStatusChange(t *testing.T) {
	tests := []struct {
		name string
		from models.AppointmentStatus
		to   models.AppointmentStatus
		want bool
	}{
		{"pending to approved", models.AppointmentPending, models.AppointmentApproved, true},
		{"pending to rejected", models.AppointmentPending, models.AppointmentRejected, true},
		{"pending to cancelled", models.AppointmentPending, models.AppointmentCancelled, true},
		{"pending to completed skips approval", models.AppointmentPending, models.AppointmentCompleted, false},
		{"approved to completed", models.AppointmentApproved, models.AppointmentCompleted, true},
		{"approved to cancelled", models.AppointmentApproved, models.AppointmentCancelled, true},
		{"approved back to pending", models.AppointmentApproved, models.AppointmentPending, false},
		{"approved to rejected", models.AppointmentApproved, models.AppointmentRejected, false},
		{"completed is terminal", models.AppointmentCompleted, models.AppointmentCancelled, false},
		{"rejected is terminal", models.AppointmentRejected, models.AppointmentApproved, false},
		{"cancelled is terminal", models.AppointmentCancelled, models.AppointmentPending, false},
		{"self transition", models.AppointmentPending, models.AppointmentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatusChange(tt.from, tt.to); got != tt.want {
				t.Errorf("ValidStatusChange(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
