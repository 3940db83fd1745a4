package bookings

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers the customer booking endpoints
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config, log *logger.Logger) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.CustomerAuth(cfg, log))
	{
		bookings.POST("", controller.Create)
		bookings.GET("/my-bookings", controller.MyBookings)
		bookings.GET("/my", controller.MyBookings)
		bookings.GET("/:id", controller.Get)
		bookings.POST("/:id/upload-payment", controller.UploadPaymentProof)
		bookings.PATCH("/:id/cancel", controller.Cancel)
	}
}

// SetupAdminBookingRoutes registers the back-office booking endpoints.
// GET /admin/bookings/stats lives in the analytics package.
func SetupAdminBookingRoutes(rg *gin.RouterGroup, controller *AdminController, cfg *config.Config, log *logger.Logger) {
	anyAdmin := middleware.RequireRoles(middleware.RoleSuperAdmin, middleware.RoleAdministrator, middleware.RoleAdmin)

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.AdminAuth(cfg, log), anyAdmin)
	{
		admin.GET("", controller.List)
		admin.GET("/pending-verification", controller.PendingVerification)
		admin.GET("/:id", controller.Get)
		admin.PATCH("/verify-payment/:id", controller.VerifyPayment)
	}
}
