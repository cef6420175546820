package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.OrgIDFromContext(c), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "project already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create project", nil, err)
		}
		return
	}
	respond.Created(c, p)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.OrgIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil, err)
		return
	}
	if list == nil {
		list = []Project{}
	}
	respond.OK(c, gin.H{"items": list})
}
