package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vms/api/internal/service"
	"vms/api/internal/store"
)

type checkInRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Company        string `json:"company"`
	Purpose        string `json:"purpose" binding:"required"`
	IDProofType    string `json:"id_proof_type" binding:"required"`
	IDProofNumber  string `json:"id_proof_number" binding:"required"`
	HostName       string `json:"host_name"`
	HostDepartment string `json:"host_department"`
}

func (h HandlerSet) CheckInVisitor(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	visitor, err := h.visitorService.CheckIn(c.Request.Context(), service.CheckInInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		Purpose:        req.Purpose,
		IDProofType:    req.IDProofType,
		IDProofNumber:  req.IDProofNumber,
		HostName:       req.HostName,
		HostDepartment: req.HostDepartment,
	}, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_required_fields"})
			return
		}
		h.log.Error().Err(err).Msg("visitor check-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"visitor": toVisitorResponse(visitor)})
}

func (h HandlerSet) ListVisitors(c *gin.Context) {
	visitors, err := h.visitorService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list visitors failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitors": toVisitorResponses(visitors)})
}

func (h HandlerSet) CheckOutVisitor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	visitor, err := h.visitorService.CheckOut(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrVisitorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitor_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("visitor check-out failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"visitor": toVisitorResponse(visitor)})
}
