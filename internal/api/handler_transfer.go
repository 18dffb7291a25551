package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"robot-registry/internal/parse"
	"robot-registry/internal/transfer"
)

// Export handles GET /api/export and serves the envelope as a download.
func (h *Handler) Export(c *gin.Context) {
	includeArchived, err := parse.Flag(c.Request.URL.Query(), "include_archived")
	if err != nil {
		respondError(c, err)
		return
	}

	env, err := h.transfer.Export(c.Request.Context(), includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	c.Status(http.StatusOK)
	if _, err := env.WriteTo(c.Writer); err != nil {
		logrus.WithError(err).Error("Failed to write export response")
	}
}

// Import handles POST /api/import. The body is the raw envelope.
func (h *Handler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondBadBody(c)
		return
	}

	result, err := h.transfer.Import(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidateImport handles POST /api/import/validate. Problems are reported
// in the body with status 200.
func (h *Handler) ValidateImport(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondBadBody(c)
		return
	}
	c.JSON(http.StatusOK, transfer.ValidateEnvelope(data))
}
