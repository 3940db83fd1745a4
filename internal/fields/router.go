package fields

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupFieldRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	managers := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator)
	anyAdmin := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator, middleware.RoleAdmin)

	// gin needs one wildcard name per segment, so price routes use :id for the field too
	fields := rg.Group("/admin/fields")
	fields.Use(middleware.AdminAuth(cfg, log))
	{
		fields.POST("", managers, controller.Create)
		fields.GET("", anyAdmin, controller.List)
		fields.GET("/:id", anyAdmin, controller.Get)
		fields.PATCH("/:id", managers, controller.Update)
		fields.DELETE("/:id", managers, controller.Delete)
		fields.POST("/:id/images", managers, controller.UploadImage)

		fields.POST("/:id/prices", managers, controller.AddPrice)
		fields.GET("/:id/prices", anyAdmin, controller.ListPrices)
		fields.PATCH("/:id/prices/:priceId", managers, controller.UpdatePrice)
		fields.DELETE("/:id/prices/:priceId", managers, controller.RemovePrice)
	}
}
