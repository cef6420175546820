package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/server/respond"
	"logit-backend/internal/timesheets"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches upload and summary routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.upload)
	rg.POST("/uploads/preview", h.preview)
	rg.GET("/summaries", h.list)
	rg.GET("/summaries/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	h.limitBody(c)
	fh, err := c.FormFile("file")
	if err != nil {
		writeFormError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil, err)
		return
	}
	defer f.Close()

	summary, err := h.Svc.ProcessUpload(c.Request.Context(), UploadInput{
		OrgID:       middleware.OrgIDFromContext(c),
		FileName:    fh.Filename,
		Body:        f,
		EmployeeRef: c.PostForm("employee_id"),
		MonthYear:   c.PostForm("month_year"),
	})
	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			c.Set("pipelineStage", se.Stage)
			if se.UploadID != "" {
				c.Set("uploadId", se.UploadID)
			}
		}
		WriteError(c, err)
		return
	}
	c.Set("uploadId", summary.UploadID)
	c.Set("summaryId", summary.ID)
	respond.Created(c, summary)
}

func (h *Handler) preview(c *gin.Context) {
	h.limitBody(c)
	fh, err := c.FormFile("file")
	if err != nil {
		writeFormError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil, err)
		return
	}
	defer f.Close()

	result, err := h.Svc.Preview(c.Request.Context(), fh.Filename, f)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) list(c *gin.Context) {
	filter := Filter{MonthYear: strings.TrimSpace(c.Query("month_year"))}
	if v := c.Query("latest"); v != "" {
		latest, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "latest must be a boolean", []map[string]string{
				{"field": "latest", "issue": "invalid"},
			})
			return
		}
		filter.Latest = latest
	}

	list, err := h.Svc.List(c.Request.Context(), middleware.OrgIDFromContext(c), c.Query("employee_id"), filter)
	if err != nil {
		WriteError(c, err)
		return
	}
	if list == nil {
		list = []Summary{}
	}
	respond.OK(c, gin.H{"items": list})
}

func (h *Handler) get(c *gin.Context) {
	summary, err := h.Svc.Get(c.Request.Context(), middleware.OrgIDFromContext(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) limitBody(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
}

func writeFormError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit", gin.H{"limitBytes": tooLarge.Limit})
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
		{"field": "file", "issue": "required"},
	}, err)
}

// WriteError maps pipeline errors to HTTP responses. Provider and storage
// details are logged, never returned.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", clientMessage(err), nil)
	case errors.Is(err, timesheets.ErrDecode):
		respond.Error(c, http.StatusBadRequest, "decode_error", "file could not be decoded as a timesheet", nil, err)
	case errors.Is(err, ErrNotFound), errors.Is(err, employees.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", clientMessage(err), nil)
	case errors.Is(err, llm.ErrExtraction):
		respond.Error(c, http.StatusBadGateway, "llm_extraction_failed", "analysis output contained no result", nil, err)
	case errors.Is(err, llm.ErrMalformedPayload):
		respond.Error(c, http.StatusBadGateway, "llm_malformed_payload", "analysis output was not a valid result", nil, err)
	case errors.Is(err, llm.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "llm_timeout", "analysis timed out", nil, err)
	case errors.Is(err, ErrStorage):
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store results", nil, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil, err)
	}
}

// clientMessage drops the stage prefix from validation and lookup errors.
func clientMessage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		err = se.Err
	}
	return err.Error()
}
