package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/store"
)

func (h HandlerSet) GetCompany(c *gin.Context) {
	company, err := h.store.GetCompany(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			c.JSON(http.StatusOK, gin.H{"company": nil})
			return
		}
		h.log.Error().Err(err).Msg("get company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": toCompanyResponse(company)})
}

type companyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

func (h HandlerSet) SaveCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	company, err := h.store.SaveCompany(c.Request.Context(), models.Company{
		Name:      req.Name,
		Address:   req.Address,
		Email:     req.Email,
		Phone:     req.Phone,
		Website:   req.Website,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("save company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if actor, ok := currentUser(c); ok {
		h.auditor.Record(c.Request.Context(), actor.ID, "company_updated", "company", company.ID)
	}

	c.JSON(http.StatusOK, gin.H{"company": toCompanyResponse(company)})
}

var allowedLogoExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

func (h HandlerSet) UploadLogo(c *gin.Context) {
	if h.objects == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage_unavailable"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_logo_file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedLogoExtensions[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_file_type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_logo_file"})
		return
	}
	defer file.Close()

	logoURL, err := h.objects.PutLogo(c.Request.Context(), ids.New()+ext, contentType, fileHeader.Size, file)
	if err != nil {
		h.log.Error().Err(err).Msg("logo upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	company, err := h.store.GetCompany(c.Request.Context())
	if err != nil && !errors.Is(err, store.ErrCompanyNotFound) {
		h.log.Error().Err(err).Msg("get company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}
	company.LogoURL = &logoURL
	company.UpdatedAt = time.Now()

	saved, err := h.store.SaveCompany(c.Request.Context(), company)
	if err != nil {
		h.log.Error().Err(err).Msg("save company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if actor, ok := currentUser(c); ok {
		h.auditor.Record(c.Request.Context(), actor.ID, "company_logo_updated", "company", saved.ID)
	}

	c.JSON(http.StatusOK, gin.H{"company": toCompanyResponse(saved), "logo_url": logoURL})
}
