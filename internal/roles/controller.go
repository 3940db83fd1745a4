package roles

import (
	"net/http"

	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	role, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to create role")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Role created successfully", role, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	items, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list roles")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Roles retrieved successfully", items, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	role, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get role")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Role retrieved successfully", role, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	role, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to update role")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Role updated successfully", role, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, c.log, err, "Failed to delete role")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Role deleted successfully", gin.H{"id": id}, nil)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid role ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
