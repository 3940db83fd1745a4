package mobilefields

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

// List godoc
// @Summary Fields with availability and price for a slot
// @Description Default slot is one hour from the next full hour
// @Tags mobile
// @Produce json
// @Param startTime query string false "ISO start, paired with endTime"
// @Param endTime query string false "ISO end"
// @Param date query string false "YYYY-MM-DD"
// @Param startHour query int false "0-23 (08 when only date is given)"
// @Param durationHours query int false "1-24"
// @Param search query string false "Field or venue name"
// @Param venueId query string false "Venue"
// @Param onlyAvailable query bool false "Hide booked fields"
// @Param page query int false "Page"
// @Param limit query int false "Limit (default 20)"
// @Success 200 {object} response.StandardApiResponse
// @Router /mobile/fields [get]
func (c *Controller) List(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	cards, slot, meta, err := c.service.List(ctx.Request.Context(), query)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list fields")
		return
	}

	response.RespondWithSlot(ctx, "Fields retrieved successfully", cards, slot, meta)
}

// Detail godoc
// @Summary One field with availability and price for a slot
// @Tags mobile
// @Produce json
// @Param id path string true "Field ID"
// @Param startTime query string false "ISO start, paired with endTime"
// @Param endTime query string false "ISO end"
// @Param date query string false "YYYY-MM-DD"
// @Param startHour query int false "0-23"
// @Param durationHours query int false "1-24"
// @Success 200 {object} response.StandardApiResponse
// @Router /mobile/fields/{id} [get]
func (c *Controller) Detail(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid id", nil, err.Error())
		return
	}

	var query SlotQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	detail, slot, err := c.service.Detail(ctx.Request.Context(), id, query)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get field")
		return
	}
	if detail == nil {
		response.RespondJSON(ctx, "success", http.StatusOK, "Field not found", nil, nil)
		return
	}

	response.RespondWithSlot(ctx, "Field retrieved successfully", detail, slot, nil)
}
