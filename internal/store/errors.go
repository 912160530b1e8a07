package store

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrSessionNotFound     = errors.New("session not found")
	ErrVisitorNotFound     = errors.New("visitor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCompanyNotFound     = errors.New("company profile not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
