package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poojapi/ullekhanam/internal/http/response"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
)

// Non-standard status codes kept for client compatibility: 417 for
// schema violations, 418 for illegal extensions and unresolvable
// targets, 419 for page file persistence failures.
const (
	statusSchemaValidation = http.StatusExpectationFailed
	statusTargetValidation = http.StatusTeapot
	statusStorageWrite     = 419
)

func respondAppError(c *gin.Context, err error) {
	var schemaErr *apperr.SchemaValidationError
	var targetErr *apperr.TargetValidationError
	var mediaErr *apperr.UnsupportedMediaError
	var storageErr *apperr.StorageWriteError

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.As(err, &schemaErr):
		response.RespondError(c, statusSchemaValidation, "schema_validation_failed", err)
	case errors.As(err, &targetErr):
		response.RespondError(c, statusTargetValidation, "target_validation_failed", err)
	case errors.As(err, &mediaErr):
		response.RespondError(c, statusTargetValidation, "illegal_file_extension", err)
	case errors.As(err, &storageErr):
		response.RespondError(c, statusStorageWrite, "page_file_save_failed", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
