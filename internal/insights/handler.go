package insights

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
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
	rg.POST("/insights", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "employee_id and date_range are required", nil, err)
		return
	}
	result, err := h.Svc.Generate(c.Request.Context(), middleware.OrgIDFromContext(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, result)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "No data found.", nil)
	case errors.Is(err, employees.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "employee not found", nil)
	case errors.Is(err, llm.ErrExtraction), errors.Is(err, llm.ErrMalformedPayload):
		respond.Error(c, http.StatusBadGateway, "llm_malformed_payload", "Failed to parse summary.", nil, err)
	case errors.Is(err, llm.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "llm_timeout", "insights timed out", nil, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil, err)
	}
}
