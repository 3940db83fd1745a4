package roles

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRoleRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	superOnly := middleware.RequireRoles(middleware.RoleSuperAdmin)
	readers := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator)

	roles := rg.Group("/admin/roles")
	roles.Use(middleware.AdminAuth(cfg, log))
	{
		roles.POST("", superOnly, controller.Create)
		roles.GET("", readers, controller.List)
		roles.GET("/:id", readers, controller.Get)
		roles.PATCH("/:id", superOnly, controller.Update)
		roles.DELETE("/:id", superOnly, controller.Delete)
	}
}
