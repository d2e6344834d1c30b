package handlers

import (
	"errors"
	"net/http"

	"flex_report/internal/catalog"
	"flex_report/internal/engine"
	"flex_report/internal/repository"
	"flex_report/internal/service"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal error"

// errorKinds maps domain errors to an HTTP status and a stable error code.
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{catalog.ErrUnknownFluid, http.StatusNotFound, "unknown_fluid"},
	{catalog.ErrUnknownEquipment, http.StatusNotFound, "unknown_equipment"},
	{catalog.ErrUnknownApplication, http.StatusNotFound, "unknown_application"},
	{engine.ErrInvalidSeverity, http.StatusBadRequest, "invalid_severity"},
	{engine.ErrInvalidElapsedHours, http.StatusBadRequest, "invalid_elapsed_hours"},
	{engine.ErrInvalidThreshold, http.StatusBadRequest, "invalid_threshold"},
	{engine.ErrInvalidMeasurement, http.StatusBadRequest, "invalid_measurement"},
	{service.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, "batch_too_large"},
	{service.ErrInvalidWorkbook, http.StatusBadRequest, "invalid_workbook"},
	{service.ErrMissingColumn, http.StatusBadRequest, "missing_column"},
	{service.ErrEmptyPassword, http.StatusBadRequest, "empty_password"},
	{service.ErrEmptyUsername, http.StatusBadRequest, "empty_username"},
	{repository.ErrUsernameTaken, http.StatusConflict, "username_taken"},
}

// classify returns the status and code for err; unknown errors are 500.
func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError writes the classified error. Client errors echo err's message;
// server errors are logged under logKey and hidden.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		h.logAndJSONError(c, status, errInternal, logKey, err, kv...)
		return
	}
	if h.log != nil {
		h.log.Debugw(logKey, append([]interface{}{"err", err, "code", code}, kv...)...)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_body"})
		return false
	}
	return true
}
