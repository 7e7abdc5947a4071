package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"acmemedical/middlewares"
	"acmemedical/repositories"

	"github.com/gin-gonic/gin"
)

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		middlewares.HttpError(c, "Invalid "+name, http.StatusBadRequest, err)
		return 0, false
	}
	return uint(value), true
}

// writeRepositoryError maps the repository error taxonomy onto HTTP
// status codes: broken references are client errors, uniqueness
// conflicts are 409, everything else is a server fault.
func writeRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrInvalidReference):
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, repositories.ErrDuplicateUsername),
		errors.Is(err, repositories.ErrDuplicateSchoolName),
		errors.Is(err, repositories.ErrDuplicatePrescription):
		middlewares.HttpError(c, err.Error(), http.StatusConflict, nil)
	default:
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
	}
}
