package analytics

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	admin := rg.Group("/admin/bookings")
	admin.Use(
		middleware.AdminAuth(cfg, log),
		middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator, middleware.RoleAdmin),
	)
	{
		admin.GET("/stats", controller.BookingStats)
	}
}
