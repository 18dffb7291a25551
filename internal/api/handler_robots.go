package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"robot-registry/internal/model"
	"robot-registry/internal/parse"
)

// ListRobots handles GET /api/robots.
func (h *Handler) ListRobots(c *gin.Context) {
	opts, err := parse.ListOptions(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	if opts, err = h.validator.ListOptions(opts); err != nil {
		respondError(c, err)
		return
	}

	page, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateRobot handles POST /api/robots.
func (h *Handler) CreateRobot(c *gin.Context) {
	var in model.RobotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c)
		return
	}
	in, err := h.validator.Input(in)
	if err != nil {
		respondError(c, err)
		return
	}

	robot, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, robot)
}

// GetRobot handles GET /api/robots/:id.
func (h *Handler) GetRobot(c *gin.Context) {
	id := c.Param("id")
	robot, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if robot == nil {
		respondNotFound(c, id)
		return
	}
	c.JSON(http.StatusOK, robot)
}

// UpdateRobot handles PATCH /api/robots/:id.
func (h *Handler) UpdateRobot(c *gin.Context) {
	var upd model.RobotUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondBadBody(c)
		return
	}
	upd, err := h.validator.Update(upd)
	if err != nil {
		respondError(c, err)
		return
	}

	robot, err := h.repo.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, robot)
}

// DeleteRobot handles DELETE /api/robots/:id.
func (h *Handler) DeleteRobot(c *gin.Context) {
	if err := h.repo.HardDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ArchiveRobot handles POST /api/robots/:id/archive.
func (h *Handler) ArchiveRobot(c *gin.Context) {
	h.toggleArchived(c, h.repo.Archive)
}

// RestoreRobot handles POST /api/robots/:id/restore.
func (h *Handler) RestoreRobot(c *gin.Context) {
	h.toggleArchived(c, h.repo.Restore)
}

func (h *Handler) toggleArchived(c *gin.Context, apply func(ctx context.Context, id string) error) {
	ctx, id := c.Request.Context(), c.Param("id")
	if err := apply(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	robot, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if robot == nil {
		respondNotFound(c, id)
		return
	}
	c.JSON(http.StatusOK, robot)
}

// PurgeArchived handles DELETE /api/archived.
func (h *Handler) PurgeArchived(c *gin.Context) {
	removed, err := h.repo.PurgeArchived(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
