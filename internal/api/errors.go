package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"robot-registry/internal/repository"
	"robot-registry/internal/transfer"
	"robot-registry/internal/validation"
)

// Codes for failures raised before the repository is reached.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidBody   = "INVALID_BODY"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeInternal      = "INTERNAL_ERROR"
)

var statusByCode = map[repository.Code]int{
	repository.CodeNotFound:      http.StatusNotFound,
	repository.CodeDuplicateName: http.StatusConflict,
}

// respondError writes err as {"error", "code"} with a matching status.
func respondError(c *gin.Context, err error) {
	if verrs, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verrs.Error(),
			"code":   CodeValidation,
			"fields": verrs,
		})
		return
	}

	var formatErr *transfer.FormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      formatErr.Error(),
			"code":       CodeInvalidFormat,
			"violations": formatErr.Violations,
		})
		return
	}

	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		status, ok := statusByCode[repoErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": repoErr.Message, "code": repoErr.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": CodeInternal})
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": CodeInvalidBody})
}

func respondNotFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "robot " + id + " not found", "code": repository.CodeNotFound})
}
