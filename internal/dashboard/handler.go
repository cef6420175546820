package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/employees"
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
	rg.GET("/dashboard/overview", h.overview)
	rg.POST("/dashboard/summary", h.summary)
	rg.GET("/employees/:id", h.employee)
}

func (h *Handler) overview(c *gin.Context) {
	out, err := h.Svc.Overview(c.Request.Context(), middleware.OrgIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) summary(c *gin.Context) {
	var req SummaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid filter body", nil, err)
			return
		}
	}
	out, err := h.Svc.Summary(c.Request.Context(), middleware.OrgIDFromContext(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) employee(c *gin.Context) {
	out, err := h.Svc.EmployeeDetail(c.Request.Context(), middleware.OrgIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "No employees found", nil)
	case errors.Is(err, employees.ErrNotFound), errors.Is(err, employees.ErrInvalidInput):
		respond.Error(c, http.StatusNotFound, "not_found", "employee not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard data", nil, err)
	}
}
