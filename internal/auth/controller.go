package auth

import (
	"net/http"

	"fieldbook/internal/shared/middleware"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// Register godoc
// @Summary Register a customer
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Customer"
// @Success 201 {object} response.StandardApiResponse
// @Router /auth/register [post]
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to register customer")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Registration successful", resp, nil)
}

// Login godoc
// @Summary Customer login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.StandardApiResponse
// @Router /auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to login")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to refresh token")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", tokenPair, nil)
}

// GetProfile godoc
// @Summary Current customer profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /profile [get]
func (c *Controller) GetProfile(ctx *gin.Context) {
	customerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	customer, err := c.service.GetProfile(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to load profile")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Profile retrieved successfully", customer, nil)
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return false
	}
	return true
}
