package employees

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

// RegisterRoutes mounts create and list. The detail view lives with the dashboard,
// which joins timesheets and summaries.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/employees", h.create)
	rg.GET("/employees", h.list)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "emp_code and name are required", nil, err)
		return
	}
	emp, err := h.Svc.Create(c.Request.Context(), middleware.OrgIDFromContext(c), in)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.Created(c, emp)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.OrgIDFromContext(c), Filter{Query: c.Query("q")})
	if err != nil {
		WriteError(c, err)
		return
	}
	if list == nil {
		list = []Employee{}
	}
	respond.OK(c, gin.H{"items": list})
}

// WriteError maps employee errors to HTTP responses.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "employee not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "employee code already exists", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "employee request failed", nil, err)
	}
}
