package store

import "vms/api/internal/models"

// Appointment statuses move one way: once a record leaves pending it
// never returns, and completed/rejected/cancelled are terminal.
var appointmentTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentPending:  {models.AppointmentApproved, models.AppointmentRejected, models.AppointmentCancelled},
	models.AppointmentApproved: {models.AppointmentCompleted, models.AppointmentCancelled},
}

func ValidStatusChange(from, to models.AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
