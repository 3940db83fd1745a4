package fields

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
// @Summary Create a field with prices and images
// @Tags admin-fields
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateFieldRequest true "Field"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/fields [post]
func (c *Controller) Create(ctx *gin.Context) {
	var req CreateFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	field, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to create field")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Field created successfully", field, nil)
}

// List godoc
// @Summary List fields
// @Tags admin-fields
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param search query string false "Name search"
// @Param venueId query string false "Venue"
// @Param type query string false "Field type"
// @Param isActive query bool false "Active flag"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/fields [get]
func (c *Controller) List(ctx *gin.Context) {
	var filters FieldFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	items, meta, err := c.service.List(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list fields")
		return
	}

	response.RespondPaginated(ctx, "Fields retrieved successfully", items, meta)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	field, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to get field")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field retrieved successfully", field, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	field, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to update field")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field updated successfully", field, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, c.log, err, "Failed to delete field")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field deleted successfully", gin.H{"id": id}, nil)
}

// UploadImage godoc
// @Summary Upload a field photo
// @Tags admin-fields
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Field ID"
// @Param image formData file true "JPG, PNG or WEBP"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/fields/{id}/images [post]
func (c *Controller) UploadImage(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "image file is required", nil, err.Error())
		return
	}

	image, err := c.service.UploadImage(ctx.Request.Context(), id, file)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to upload field image")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Field image uploaded successfully", image, nil)
}

func (c *Controller) AddPrice(ctx *gin.Context) {
	fieldID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req PriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	price, err := c.service.AddPrice(ctx.Request.Context(), fieldID, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to add field price")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Field price added successfully", price, nil)
}

func (c *Controller) ListPrices(ctx *gin.Context) {
	fieldID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	prices, err := c.service.ListPrices(ctx.Request.Context(), fieldID)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to list field prices")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field prices retrieved successfully", prices, nil)
}

func (c *Controller) UpdatePrice(ctx *gin.Context) {
	fieldID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	priceID, ok := parseUUIDParam(ctx, "priceId")
	if !ok {
		return
	}

	var req UpdatePriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	price, err := c.service.UpdatePrice(ctx.Request.Context(), fieldID, priceID, req)
	if err != nil {
		response.RespondError(ctx, c.log, err, "Failed to update field price")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field price updated successfully", price, nil)
}

func (c *Controller) RemovePrice(ctx *gin.Context) {
	fieldID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	priceID, ok := parseUUIDParam(ctx, "priceId")
	if !ok {
		return
	}

	if err := c.service.RemovePrice(ctx.Request.Context(), fieldID, priceID); err != nil {
		response.RespondError(ctx, c.log, err, "Failed to remove field price")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Field price removed successfully", gin.H{"id": priceID}, nil)
}

func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid "+name, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
