package analytics

import (
	"net/http"

	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

// BookingStats godoc
// @Summary Dashboard booking statistics
// @Description Today's bookings, active bookings, this month's paid revenue and proofs awaiting review
// @Tags admin-bookings
// @Security BearerAuth
// @Produce json
// @Param venueId query string false "Limit to one venue"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/bookings/stats [get]
func (c *Controller) BookingStats(ctx *gin.Context) {
	var query StatsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	stats, err := c.service.BookingStats(ctx.Request.Context(), query.VenueID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get booking stats")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking stats retrieved successfully", stats, nil)
}
