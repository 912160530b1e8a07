package models

import "time"

type VisitorStatus string

const (
	VisitorCheckedIn  VisitorStatus = "checked_in"
	VisitorCheckedOut VisitorStatus = "checked_out"
)

type Visitor struct {
	ID             string
	FullName       string
	Email          string
	Phone          string
	Company        *string
	Purpose        string
	IDProofType    string
	IDProofNumber  string
	BadgeNumber    string
	Status         VisitorStatus
	CheckInTime    time.Time
	CheckOutTime   *time.Time
	CheckedInBy    string
	CheckedOutBy   *string
	HostName       *string
	HostDepartment *string
}
