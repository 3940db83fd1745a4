package bookings

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"fieldbook/internal/shared/middleware"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const proofFormField = "paymentProof"

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

// Create godoc
// @Summary Book a field
// @Description startTime is an ISO timestamp (with endTime or durationHours) or HH:MM with orderDate
// @Tags bookings
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param body body CreateBookingRequest true "Booking"
// @Param paymentProof formData file false "Transfer proof (JPG, PNG or WEBP)"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings [post]
func (c *Controller) Create(ctx *gin.Context) {
	customerID, ok := currentCustomer(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	proof, ok := optionalProof(ctx)
	if !ok {
		return
	}

	booking, err := c.service.Create(ctx.Request.Context(), customerID, req, proof)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to create booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// MyBookings godoc
// @Summary Booking history of the signed-in customer
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit (default 20)"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/my-bookings [get]
func (c *Controller) MyBookings(ctx *gin.Context) {
	customerID, ok := currentCustomer(ctx)
	if !ok {
		return
	}

	var filters MyBookingsFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	items, meta, err := c.service.MyBookings(ctx.Request.Context(), customerID, filters)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list bookings")
		return
	}

	response.RespondPaginated(ctx, "Bookings retrieved successfully", items, meta)
}

// Get godoc
// @Summary Booking detail (owner only)
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Router /bookings/{id} [get]
func (c *Controller) Get(ctx *gin.Context) {
	customerID, ok := currentCustomer(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.service.Get(ctx.Request.Context(), customerID, bookingID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// UploadPaymentProof godoc
// @Summary Attach a transfer proof to a booking
// @Tags bookings
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Booking ID"
// @Param paymentProof formData file false "Transfer proof (JPG, PNG or WEBP)"
// @Param body body UploadPaymentProofRequest false "Proof URL"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/{id}/upload-payment [post]
func (c *Controller) UploadPaymentProof(ctx *gin.Context) {
	customerID, ok := currentCustomer(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UploadPaymentProofRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBind(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}

	proof, ok := optionalProof(ctx)
	if !ok {
		return
	}

	result, err := c.service.UploadPaymentProof(ctx.Request.Context(), customerID, bookingID, req.ProofURL, proof)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to upload payment proof")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment proof uploaded successfully", result, nil)
}

// Cancel godoc
// @Summary Cancel a booking that is not yet paid
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param body body CancelBookingRequest false "Reason"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/{id}/cancel [patch]
func (c *Controller) Cancel(ctx *gin.Context) {
	customerID, ok := currentCustomer(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}

	booking, err := c.service.Cancel(ctx.Request.Context(), customerID, bookingID, req.Reason)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func currentCustomer(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// optionalProof returns the multipart proof file, or nil when the request has none
func optionalProof(ctx *gin.Context) (*multipart.FileHeader, bool) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return nil, true
	}
	file, err := ctx.FormFile(proofFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid "+proofFormField+" upload", nil, err.Error())
		return nil, false
	}
	return file, true
}

func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid "+name, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
