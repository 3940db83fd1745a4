package bookings

import (
	"net/http"

	"fieldbook/internal/shared/middleware"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	service AdminService
	log     *logger.Logger
}

func NewAdminController(service AdminService, log *logger.Logger) *AdminController {
	return &AdminController{service: service, log: log}
}

// List godoc
// @Summary All bookings
// @Tags admin-bookings
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit (default 10)"
// @Param search query string false "Customer name/email, field or venue name"
// @Param status query string false "Status"
// @Param fieldId query string false "Field"
// @Param venueId query string false "Venue"
// @Param startDate query string false "From (YYYY-MM-DD or ISO)"
// @Param endDate query string false "To (YYYY-MM-DD or ISO)"
// @Param today query bool false "Only bookings starting today"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/bookings [get]
func (c *AdminController) List(ctx *gin.Context) {
	var filters AdminBookingFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	items, meta, err := c.service.List(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list bookings")
		return
	}

	response.RespondPaginated(ctx, "Bookings retrieved successfully", items, meta)
}

func (c *AdminController) Get(ctx *gin.Context) {
	bookingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.service.Get(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// PendingVerification godoc
// @Summary Bookings whose payment proof awaits review
// @Tags admin-bookings
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param venueId query string false "Venue"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/bookings/pending-verification [get]
func (c *AdminController) PendingVerification(ctx *gin.Context) {
	var filters PendingFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	items, meta, err := c.service.PendingVerification(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list pending verifications")
		return
	}

	response.RespondPaginated(ctx, "Pending verifications retrieved successfully", items, meta)
}

// VerifyPayment godoc
// @Summary Approve or reject a payment proof
// @Tags admin-bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param body body VerifyPaymentRequest true "Decision"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /admin/bookings/verify-payment/{id} [patch]
func (c *AdminController) VerifyPayment(ctx *gin.Context) {
	adminID, ok := middleware.CurrentAdminID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}
	bookingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.VerifyPayment(ctx.Request.Context(), adminID, bookingID, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to verify payment")
		return
	}

	message := "Payment rejected, booking cancelled"
	if *req.Approved {
		message = "Payment approved successfully"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, result, nil)
}
