package auth

import (
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	config     *config.Config
	log        *logger.Logger
}

func NewRouter(controller *Controller, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
		log:        log,
	}
}

func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authRouter.controller.Register)
		auth.POST("/login", authRouter.controller.Login)
		auth.POST("/refresh", authRouter.controller.RefreshToken)
	}

	profile := rg.Group("/profile")
	profile.Use(middleware.CustomerAuth(authRouter.config, authRouter.log))
	{
		profile.GET("", authRouter.controller.GetProfile)
	}
}
