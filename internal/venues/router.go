package venues

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	managers := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator)
	anyAdmin := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator, middleware.RoleAdmin)

	venues := rg.Group("/admin/venues")
	venues.Use(middleware.AdminAuth(cfg, log))
	{
		venues.POST("", managers, controller.Create)
		venues.GET("", anyAdmin, controller.List)
		venues.GET("/:id", anyAdmin, controller.Get)
		venues.PATCH("/:id", managers, controller.Update)
		venues.DELETE("/:id", managers, controller.Delete)
	}
}
