package handlers

import (
	"time"

	"vms/api/internal/models"
	"vms/api/internal/reports"
)

// Wire DTOs. Domain structs stay untagged; the mapping to snake_case
// happens here and nowhere else.

type userResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Department: u.Department,
		Phone:      u.Phone,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

type visitorResponse struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Company        *string `json:"company,omitempty"`
	Purpose        string  `json:"purpose"`
	IDProofType    string  `json:"id_proof_type"`
	IDProofNumber  string  `json:"id_proof_number"`
	BadgeNumber    string  `json:"badge_number"`
	Status         string  `json:"status"`
	CheckInTime    string  `json:"check_in_time"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	CheckedInBy    string  `json:"checked_in_by"`
	CheckedOutBy   *string `json:"checked_out_by,omitempty"`
	HostName       *string `json:"host_name,omitempty"`
	HostDepartment *string `json:"host_department,omitempty"`
	VisitDuration  string  `json:"visit_duration"`
}

func toVisitorResponse(v models.Visitor) visitorResponse {
	resp := visitorResponse{
		ID:             v.ID,
		FullName:       v.FullName,
		Email:          v.Email,
		Phone:          v.Phone,
		Company:        v.Company,
		Purpose:        v.Purpose,
		IDProofType:    v.IDProofType,
		IDProofNumber:  v.IDProofNumber,
		BadgeNumber:    v.BadgeNumber,
		Status:         string(v.Status),
		CheckInTime:    v.CheckInTime.Format(time.RFC3339),
		CheckedInBy:    v.CheckedInBy,
		CheckedOutBy:   v.CheckedOutBy,
		HostName:       v.HostName,
		HostDepartment: v.HostDepartment,
		VisitDuration:  reports.DurationLabel(v),
	}
	if v.CheckOutTime != nil {
		out := v.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &out
	}
	return resp
}

func toVisitorResponses(visitors []models.Visitor) []visitorResponse {
	responses := make([]visitorResponse, 0, len(visitors))
	for _, v := range visitors {
		responses = append(responses, toVisitorResponse(v))
	}
	return responses
}

type appointmentResponse struct {
	ID              string  `json:"id"`
	VisitorName     string  `json:"visitor_name"`
	VisitorEmail    *string `json:"visitor_email,omitempty"`
	VisitorPhone    *string `json:"visitor_phone,omitempty"`
	VisitorCompany  *string `json:"visitor_company,omitempty"`
	HostName        string  `json:"host_name"`
	HostEmail       string  `json:"host_email"`
	HostDepartment  *string `json:"host_department,omitempty"`
	ScheduledTime   string  `json:"scheduled_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Purpose         string  `json:"purpose"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}

func toAppointmentResponse(a models.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		VisitorName:     a.VisitorName,
		VisitorEmail:    a.VisitorEmail,
		VisitorPhone:    a.VisitorPhone,
		VisitorCompany:  a.VisitorCompany,
		HostName:        a.HostName,
		HostEmail:       a.HostEmail,
		HostDepartment:  a.HostDepartment,
		ScheduledTime:   a.ScheduledTime.Format(time.RFC3339),
		DurationMinutes: a.DurationMinutes,
		Purpose:         a.Purpose,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

func toAppointmentResponses(appointments []models.Appointment) []appointmentResponse {
	responses := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		responses = append(responses, toAppointmentResponse(a))
	}
	return responses
}

type companyResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Website   string  `json:"website"`
	LogoURL   *string `json:"logo_url,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

func toCompanyResponse(c models.Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		LogoURL:   c.LogoURL,
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type auditResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toAuditResponses(entries []models.AuditEntry) []auditResponse {
	responses := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, auditResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}
