package admins

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupAdminAuthRoutes mounts /admin/auth. Registration needs an existing
// manager token; the first Super Admin comes from cmd/seed.
func SetupAdminAuthRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	adminAuth := middleware.AdminAuth(cfg, log)

	group := rg.Group("/admin/auth")
	{
		group.POST("/login", controller.Login)
		group.POST("/register", adminAuth,
			middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator),
			controller.Register)
		group.GET("/profile", adminAuth, controller.GetProfile)
	}
}
