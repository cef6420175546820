package reports

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/employees"
	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/server/respond"
	"logit-backend/internal/shared/util"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/timesheets", h.timesheets)
	rg.GET("/reports/employees/:id/export", h.employee)
}

func (h *Handler) timesheets(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "csv" && format != "xlsx" {
		badFormat(c, "json, csv or xlsx")
		return
	}
	rows, err := h.Svc.Timesheets(c.Request.Context(), middleware.OrgIDFromContext(c), Query{
		EmployeeRef: c.Query("employee_id"),
		Project:     c.Query("project"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		MonthYear:   c.Query("month_year"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if format == "json" {
		respond.OK(c, gin.H{"items": rows})
		return
	}
	writeTables(c, format, "timesheets", TimesheetTable(rows))
}

func (h *Handler) employee(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "csv" && format != "xlsx" {
		badFormat(c, "csv or xlsx")
		return
	}
	rep, err := h.Svc.Employee(c.Request.Context(), middleware.OrgIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	name, err := util.SanitizeFileName(rep.Employee.EmpCode)
	if err != nil {
		name = "employee"
	}
	writeTables(c, format, name+"-report", EmployeeTables(rep)...)
}

func writeTables(c *gin.Context, format, baseName string, tables ...Table) {
	var buf bytes.Buffer
	var err error
	contentType := ContentTypeCSV
	if format == "xlsx" {
		contentType = ContentTypeXLSX
		err = WriteXLSX(&buf, tables...)
	} else {
		err = WriteCSV(&buf, tables...)
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build report", nil, err)
		return
	}
	respond.Attachment(c, baseName+"."+format, contentType, buf.Bytes())
}

func badFormat(c *gin.Context, allowed string) {
	respond.Error(c, http.StatusBadRequest, "validation_error", "format must be "+allowed, []map[string]string{
		{"field": "format", "issue": "unsupported"},
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, employees.ErrNotFound), errors.Is(err, employees.ErrInvalidInput):
		respond.Error(c, http.StatusNotFound, "not_found", "employee not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build report", nil, err)
	}
}
