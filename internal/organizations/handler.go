package organizations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations", h.create)
	rg.GET("/organizations/:code", h.lookup)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "code and name are required", nil, err)
		return
	}
	org, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, org)
}

func (h *Handler) lookup(c *gin.Context) {
	org, err := h.Svc.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"valid": true, "organization": org})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "organization code already exists", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "organization request failed", nil, err)
	}
}
