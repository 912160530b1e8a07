package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vms/api/internal/service"
	"vms/api/internal/store"
)

type appointmentRequest struct {
	VisitorName     string    `json:"visitor_name" binding:"required"`
	VisitorEmail    string    `json:"visitor_email"`
	VisitorPhone    string    `json:"visitor_phone"`
	VisitorCompany  string    `json:"visitor_company"`
	HostName        string    `json:"host_name"`
	HostEmail       string    `json:"host_email"`
	HostDepartment  string    `json:"host_department"`
	ScheduledTime   time.Time `json:"scheduled_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Purpose         string    `json:"purpose" binding:"required"`
	Notes           string    `json:"notes"`
}

func (h HandlerSet) CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), service.AppointmentInput{
		VisitorName:     req.VisitorName,
		VisitorEmail:    req.VisitorEmail,
		VisitorPhone:    req.VisitorPhone,
		VisitorCompany:  req.VisitorCompany,
		HostName:        req.HostName,
		HostEmail:       req.HostEmail,
		HostDepartment:  req.HostDepartment,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		Purpose:         req.Purpose,
		Notes:           req.Notes,
	}, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_required_fields"})
			return
		}
		h.log.Error().Err(err).Msg("create appointment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": toAppointmentResponse(appointment)})
}

func (h HandlerSet) ListAppointments(c *gin.Context) {
	appointments, err := h.appointmentService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list appointments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": toAppointmentResponses(appointments)})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateAppointmentStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	appointment, err := h.appointmentService.SetStatus(c.Request.Context(), c.Param("id"), req.Status, user.ID)
	if err != nil {
		h.respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": toAppointmentResponse(appointment)})
}

func (h HandlerSet) CancelAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	appointment, err := h.appointmentService.Cancel(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		h.respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": toAppointmentResponse(appointment)})
}

func (h HandlerSet) respondAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment_not_found"})
	case errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_status_transition"})
	case errors.Is(err, service.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
	default:
		h.log.Error().Err(err).Msg("appointment update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
