package mobilefields

import "github.com/gin-gonic/gin"

// SetupMobileFieldRoutes registers the public catalog endpoints
func SetupMobileFieldRoutes(rg *gin.RouterGroup, controller *Controller) {
	mobile := rg.Group("/mobile/fields")
	{
		mobile.GET("", controller.List)
		mobile.GET("/:id", controller.Detail)
	}
}
