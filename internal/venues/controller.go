package venues

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

// Create godoc
// @Summary Create a venue
// @Tags admin-venues
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateVenueRequest true "Venue"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/venues [post]
func (c *Controller) Create(ctx *gin.Context) {
	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to create venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Venue created successfully", venue, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var filters VenueFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	items, meta, err := c.service.List(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list venues")
		return
	}

	response.RespondPaginated(ctx, "Venues retrieved successfully", items, meta)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	venue, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue retrieved successfully", venue, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req UpdateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to update venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue updated successfully", venue, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, c.log, err, "Failed to delete venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue deleted successfully", gin.H{"id": id}, nil)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
