package uploads

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/server/respond"
)

// Handler serves stored upload metadata and files. Creating uploads runs the
// analysis pipeline and is mounted by the analyses handler.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/uploads", h.list)
	rg.GET("/uploads/:id", h.get)
	rg.GET("/uploads/:id/file", h.download)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	items, err := h.Svc.List(c.Request.Context(), middleware.OrgIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list uploads", nil, err)
		return
	}
	if items == nil {
		items = []Upload{}
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), middleware.OrgIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, u)
}

func (h *Handler) download(c *gin.Context) {
	u, rc, err := h.Svc.Open(c.Request.Context(), middleware.OrgIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read upload", nil, err)
		return
	}
	respond.Attachment(c, u.FileName, u.MimeType, data)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "upload not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "storage_error", "upload request failed", nil, err)
}
