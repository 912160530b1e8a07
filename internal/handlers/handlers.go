package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vms/api/internal/config"
	"vms/api/internal/middleware"
	"vms/api/internal/models"
	"vms/api/internal/service"
	"vms/api/internal/storage"
	"vms/api/internal/store"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	store store.Store
	cache *redis.Client

	authService        *service.AuthService
	visitorService     *service.VisitorService
	appointmentService *service.AppointmentService
	backupService      *service.BackupService
	auditor            *service.Auditor
	objects            *storage.ObjectStore
}

func NewHandlerSet(log zerolog.Logger, st store.Store, cache *redis.Client, objects *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	auditor := service.NewAuditor(st, log)

	return HandlerSet{
		log:   log,
		cfg:   cfg,
		store: st,
		cache: cache,

		authService:        service.NewAuthService(st, cfg, log),
		visitorService:     service.NewVisitorService(st, auditor, log),
		appointmentService: service.NewAppointmentService(st, auditor, log),
		backupService:      service.NewBackupService(st, objects, auditor, log),
		auditor:            auditor,
		objects:            objects,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	v1 := router.Group("/v1")

	v1.GET("/health", h.Health)
	v1.POST("/signup", h.Signup)
	v1.POST("/login", h.Login)
	v1.POST("/refresh", h.Refresh)

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.cfg, h.store))
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/user/profile", h.Profile)
		authed.GET("/users", h.ListUsers)

		authed.POST("/visitors/checkin", h.CheckInVisitor)
		authed.GET("/visitors", h.ListVisitors)
		authed.POST("/visitors/:id/checkout", h.CheckOutVisitor)

		authed.POST("/appointments", h.CreateAppointment)
		authed.GET("/appointments", h.ListAppointments)
		authed.PUT("/appointments/:id", h.UpdateAppointmentStatus)
		authed.POST("/appointments/:id/cancel", h.CancelAppointment)

		authed.GET("/stats", h.Stats)
		authed.GET("/company/settings", h.GetCompany)
		authed.GET("/company/info", h.GetCompany)
		authed.GET("/reports/visitors", h.VisitorReport)
	}

	admin := v1.Group("")
	admin.Use(
		middleware.Auth(h.cfg, h.store),
		middleware.RequireRoles(models.UserRoleAdmin),
	)
	{
		admin.POST("/users", h.CreateUser)
		admin.POST("/company/settings", h.SaveCompany)
		admin.POST("/company/logo", h.UploadLogo)
		admin.GET("/admin/audit", h.ListAudit)
		admin.POST("/admin/backups", h.RunBackup)
		admin.GET("/admin/backups", h.ListBackups)
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.ContextUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}
