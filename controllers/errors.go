package controllers

import (
	"errors"
	"net/http"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Batched search
// validation errors come back whole; everything else is a single message.
func respondError(c *gin.Context, err error) {
	var ferrs services.FieldErrors
	if errors.As(err, &ferrs) {
		utils.JSONValidationErrors(c, http.StatusBadRequest, ferrs)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyReserved),
		errors.Is(err, services.ErrPendingExists),
		errors.Is(err, services.ErrTimeOverlap),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrNotCompleted):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidValue):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateUnit),
		errors.Is(err, services.ErrDuplicateOffering):
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}
