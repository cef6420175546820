package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
	"logit-backend/internal/shared/metrics"
	"logit-backend/internal/shared/telemetry"
	"logit-backend/internal/timesheets"
	"logit-backend/internal/uploads"
)

const (
	StageStore     = "store"
	StageDecode    = "decode"
	StageNormalize = "normalize"
	StageResolve   = "resolve"
	StagePrompt    = "prompt"
	StageAnalyze   = "analyze"
	StagePersist   = "persist"
)

// Service runs the upload pipeline: store, decode, normalize, prompt, analyze, persist.
type Service struct {
	Uploads   *uploads.Service
	Employees *employees.Service
	Repo      Repo
	Analyzer  *llm.Analyzer
	Provider  string
	Now       func() time.Time
}

type UploadInput struct {
	OrgID    string
	FileName string
	Body     io.Reader
	// EmployeeRef is an employee id or code. Empty means the rows' single emp_id.
	EmployeeRef string
	// MonthYear selects one period from the rows. Empty requires the rows to span exactly one.
	MonthYear string
}

// PreviewResult is the normalized view of a file without analysis.
type PreviewResult struct {
	Rows    []timesheets.NormalizedRow `json:"rows"`
	Total   int                        `json:"total"`
	Dropped int                        `json:"dropped"`
	Periods []string                   `json:"periods"`
}

// ProcessUpload runs the whole pipeline synchronously. Nothing but the stored
// file and its upload record survives a failure.
func (s *Service) ProcessUpload(ctx context.Context, in UploadInput) (Summary, error) {
	start := time.Now()
	metrics.IncPipelineStarted()

	summary, err := s.process(ctx, in)
	metrics.ObservePipelineDurationMs(metrics.SinceMs(start))
	if err != nil {
		code := ErrorCode(err)
		metrics.IncPipelineFailed(code)
		fields := telemetry.WithContext(ctx, map[string]any{
			"file_name":   in.FileName,
			"code":        code,
			"duration_ms": int64(metrics.SinceMs(start)),
			"err":         err,
		})
		var se *StageError
		if errors.As(err, &se) {
			fields["stage"] = se.Stage
			if se.UploadID != "" {
				fields["upload_id"] = se.UploadID
			}
		}
		telemetry.Error("pipeline.failed", fields)
		return Summary{}, err
	}
	metrics.IncPipelineCompleted()
	telemetry.Info("pipeline.completed", telemetry.WithContext(ctx, map[string]any{
		"upload_id":   summary.UploadID,
		"summary_id":  summary.ID,
		"employee_id": summary.EmployeeID,
		"month_year":  summary.MonthYear,
		"version":     summary.Version,
		"rating":      summary.Rating,
		"duration_ms": int64(metrics.SinceMs(start)),
	}))
	return summary, nil
}

func (s *Service) process(ctx context.Context, in UploadInput) (Summary, error) {
	if s == nil || s.Uploads == nil || s.Employees == nil || s.Repo == nil || s.Analyzer == nil {
		return Summary{}, errors.New("analyses service not configured")
	}
	orgID := strings.TrimSpace(in.OrgID)
	fileName := strings.TrimSpace(in.FileName)
	monthYear := strings.TrimSpace(in.MonthYear)
	if orgID == "" {
		return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: organization is required", ErrValidation)}
	}
	if fileName == "" || in.Body == nil {
		return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: file is required", ErrValidation)}
	}
	if monthYear != "" {
		if _, ok := timesheets.ParsePeriod(monthYear); !ok {
			return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: month_year must be YYYY-MM", ErrValidation)}
		}
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: read upload: %v", ErrValidation, err)}
	}

	upload, err := s.Uploads.Save(ctx, orgID, fileName, bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, uploads.ErrInvalidInput) {
			return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: %v", ErrValidation, err)}
		}
		return Summary{}, &StageError{Stage: StageStore, Err: fmt.Errorf("%w: %v", ErrStorage, err)}
	}
	fail := func(stage string, err error) (Summary, error) {
		return Summary{}, &StageError{Stage: stage, UploadID: upload.ID, Err: err}
	}
	s.stage(ctx, StageStore, upload.ID, map[string]any{"size_bytes": upload.SizeBytes, "mime_type": upload.MimeType})

	raw, err := timesheets.Decode(fileName, bytes.NewReader(data))
	if err != nil {
		return fail(StageDecode, err)
	}
	s.stage(ctx, StageDecode, upload.ID, map[string]any{"raw_rows": len(raw)})

	rows := timesheets.Normalize(raw)
	s.stage(ctx, StageNormalize, upload.ID, map[string]any{"rows": len(rows), "dropped": len(raw) - len(rows)})
	if len(rows) == 0 {
		return fail(StageNormalize, fmt.Errorf("%w: no rows with a valid date", ErrValidation))
	}

	period, rows, err := selectPeriod(rows, monthYear)
	if err != nil {
		return fail(StageNormalize, err)
	}

	employee, err := s.resolveEmployee(ctx, orgID, in.EmployeeRef, rows)
	if err != nil {
		return fail(StageResolve, err)
	}
	s.stage(ctx, StageResolve, upload.ID, map[string]any{"employee_id": employee.ID, "month_year": period})

	prompt := BuildPrompt(employee.EmpCode, timesheets.PeriodLabel(period), rows)
	s.stage(ctx, StagePrompt, upload.ID, map[string]any{"prompt_chars": len(prompt)})

	verdict, err := s.Analyzer.Analyze(ctx, prompt)
	if err != nil {
		return fail(StageAnalyze, err)
	}
	s.stage(ctx, StageAnalyze, upload.ID, map[string]any{"rating": verdict.Rating, "model": verdict.Model})

	summary, err := s.Repo.Create(ctx, Summary{
		OrgID:      orgID,
		EmployeeID: employee.ID,
		MonthYear:  period,
		Summary:    verdict.Summary,
		Rating:     verdict.Rating,
		JSONData:   rows,
		UploadID:   upload.ID,
		Provider:   s.providerName(),
		Model:      verdict.Model,
		CreatedAt:  s.now(),
	})
	if err != nil {
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return fail(StagePersist, err)
	}
	s.stage(ctx, StagePersist, upload.ID, map[string]any{"summary_id": summary.ID, "version": summary.Version})
	return summary, nil
}

// Preview decodes and normalizes a file without storing or analysing it.
func (s *Service) Preview(ctx context.Context, fileName string, body io.Reader) (PreviewResult, error) {
	if strings.TrimSpace(fileName) == "" || body == nil {
		return PreviewResult{}, fmt.Errorf("%w: file is required", ErrValidation)
	}
	raw, err := timesheets.Decode(fileName, body)
	if err != nil {
		return PreviewResult{}, err
	}
	rows := timesheets.Normalize(raw)
	if rows == nil {
		rows = []timesheets.NormalizedRow{}
	}
	periods := timesheets.Periods(rows)
	if periods == nil {
		periods = []string{}
	}
	return PreviewResult{
		Rows:    rows,
		Total:   len(raw),
		Dropped: len(raw) - len(rows),
		Periods: periods,
	}, nil
}

func (s *Service) Get(ctx context.Context, orgID, id string) (Summary, error) {
	return s.Repo.GetByID(ctx, orgID, id)
}

// List returns summaries for orgID. An employee reference is resolved by id or code.
func (s *Service) List(ctx context.Context, orgID, employeeRef string, filter Filter) ([]Summary, error) {
	if ref := strings.TrimSpace(employeeRef); ref != "" {
		emp, err := s.Employees.Resolve(ctx, orgID, ref)
		if err != nil {
			return nil, err
		}
		filter.EmployeeIDs = []string{emp.ID}
	}
	if filter.MonthYear != "" {
		if _, ok := timesheets.ParsePeriod(filter.MonthYear); !ok {
			return nil, fmt.Errorf("%w: month_year must be YYYY-MM", ErrValidation)
		}
	}
	return s.Repo.List(ctx, orgID, filter)
}

func selectPeriod(rows []timesheets.NormalizedRow, monthYear string) (string, []timesheets.NormalizedRow, error) {
	if monthYear != "" {
		selected := timesheets.FilterPeriod(rows, monthYear)
		if len(selected) == 0 {
			return "", nil, fmt.Errorf("%w: no rows for month_year %s", ErrValidation, monthYear)
		}
		return monthYear, selected, nil
	}
	periods := timesheets.Periods(rows)
	if len(periods) != 1 {
		return "", nil, fmt.Errorf("%w: rows span %d periods (%s); pass month_year", ErrValidation, len(periods), strings.Join(periods, ", "))
	}
	return periods[0], rows, nil
}

func (s *Service) resolveEmployee(ctx context.Context, orgID, ref string, rows []timesheets.NormalizedRow) (employees.Employee, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		codes := distinctEmpIDs(rows)
		if len(codes) != 1 {
			return employees.Employee{}, fmt.Errorf("%w: rows name %d employees; pass employee_id", ErrValidation, len(codes))
		}
		ref = codes[0]
	}
	emp, err := s.Employees.Resolve(ctx, orgID, ref)
	switch {
	case errors.Is(err, employees.ErrNotFound):
		return employees.Employee{}, fmt.Errorf("%w: employee %q", ErrNotFound, ref)
	case errors.Is(err, employees.ErrInvalidInput):
		return employees.Employee{}, fmt.Errorf("%w: %v", ErrValidation, err)
	case err != nil:
		return employees.Employee{}, fmt.Errorf("%w: resolve employee: %v", ErrStorage, err)
	}
	return emp, nil
}

func distinctEmpIDs(rows []timesheets.NormalizedRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		id := strings.TrimSpace(r.EmpID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *Service) stage(ctx context.Context, stage, uploadID string, fields map[string]any) {
	fields = telemetry.WithContext(ctx, fields)
	fields["stage"] = stage
	fields["upload_id"] = uploadID
	telemetry.Info("pipeline.stage", fields)
}

func (s *Service) providerName() string {
	if s.Provider != "" {
		return s.Provider
	}
	if s.Analyzer != nil && s.Analyzer.Gen != nil {
		return s.Analyzer.Gen.Name()
	}
	return ""
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
