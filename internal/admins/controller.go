package admins

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
// @Summary Register an admin
// @Tags admin-auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body RegisterAdminRequest true "Admin"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/auth/register [post]
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterAdminRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to register admin")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Admin registered successfully", resp, nil)
}

// Login godoc
// @Summary Admin login
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param body body LoginAdminRequest true "Credentials"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginAdminRequest
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

func (c *Controller) GetProfile(ctx *gin.Context) {
	adminID, ok := middleware.CurrentAdminID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	admin, err := c.service.GetProfile(ctx.Request.Context(), adminID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to load admin profile")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Admin profile retrieved successfully", admin, nil)
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
