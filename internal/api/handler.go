package api

import (
	"robot-registry/internal/repository"
	"robot-registry/internal/transfer"
	"robot-registry/internal/validation"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	repo           *repository.Repository
	validator      *validation.Validator
	transfer       *transfer.Engine
	exportFilename string
}

// NewHandler creates a new API handler. Exports are offered for download
// under exportFilename.
func NewHandler(repo *repository.Repository, v *validation.Validator, engine *transfer.Engine, exportFilename string) *Handler {
	return &Handler{
		repo:           repo,
		validator:      v,
		transfer:       engine,
		exportFilename: exportFilename,
	}
}
