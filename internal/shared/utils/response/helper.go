package response

import (
	"net/http"

	"fieldbook/internal/shared/apperror"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondPaginated writes a successful list response with meta
func RespondPaginated(c *gin.Context, message string, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, StandardApiResponse{
		Status:     "success",
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Meta:       meta,
	})
}

// RespondWithSlot writes an availability read together with the slot it was computed for
func RespondWithSlot(c *gin.Context, message string, data interface{}, slot interface{}, meta *Meta) {
	c.JSON(http.StatusOK, StandardApiResponse{
		Status:     "success",
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Meta:       meta,
		Slot:       slot,
	})
}

// RespondError surfaces domain errors verbatim and hides everything else
// behind a 500 with the fallback message.
func RespondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	if appErr, ok := apperror.As(err); ok {
		RespondJSON(c, "error", appErr.StatusCode(), appErr.Message, nil, nil)
		return
	}

	if log != nil {
		log.LogHTTPError(c, err, http.StatusInternalServerError)
	}
	RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, nil)
}
