package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/analyses"
	"logit-backend/internal/employees"
	"logit-backend/internal/projects"
	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/timesheets"
)

type world struct {
	svc  *Service
	asha employees.Employee
	ravi employees.Employee
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	empSvc := employees.NewService(employees.NewMemoryRepo())
	projSvc := projects.NewService(projects.NewMemoryRepo())
	entries := timesheets.NewMemoryRepo()
	sums := analyses.NewMemoryRepo(entries)

	asha, err := empSvc.Create(ctx, "org-1", employees.CreateInput{EmpCode: "E100", Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ravi, err := empSvc.Create(ctx, "org-1", employees.CreateInput{EmpCode: "E200", Name: "Ravi Kumar"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := empSvc.Create(ctx, "org-2", employees.CreateInput{EmpCode: "E100", Name: "Other Org"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, in := range []projects.CreateInput{
		{Name: "Atlas", ClientName: "Globex", Status: "live"},
		{Name: "Beacon", ClientName: "Initech", Status: "hold"},
	} {
		if _, err := projSvc.Create(ctx, "org-1", in); err != nil {
			t.Fatalf("create project: %v", err)
		}
	}

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	create := func(emp employees.Employee, month string, rating float64, rows []timesheets.NormalizedRow, offset int) {
		t.Helper()
		if _, err := sums.Create(ctx, analyses.Summary{
			OrgID: "org-1", EmployeeID: emp.ID, MonthYear: month, Summary: "s", Rating: rating,
			JSONData: rows, CreatedAt: base.Add(time.Duration(offset) * time.Hour),
		}); err != nil {
			t.Fatalf("create summary: %v", err)
		}
	}
	juneAsha := []timesheets.NormalizedRow{
		{Date: "2025-06-02", Day: "Monday", Project: "Atlas", HoursWorked: 8, WorkDone: "a", MonthYear: "2025-06"},
		{Date: "2025-06-03", Day: "Tuesday", Project: "Atlas", HoursWorked: 6.5, WorkDone: "b", MonthYear: "2025-06"},
		{Date: "2025-06-04", Day: "Wednesday", Project: "Atlas", IsLeave: true, MonthYear: "2025-06"},
	}
	create(asha, "2025-06", 10, juneAsha, 0)
	create(asha, "2025-06", 9, juneAsha, 1)
	create(asha, "2025-05", 10, []timesheets.NormalizedRow{{Date: "2025-05-05", Project: "Beacon", HoursWorked: 4, WorkDone: "c", MonthYear: "2025-05"}}, 2)
	create(ravi, "2025-06", 7.25, []timesheets.NormalizedRow{{Date: "2025-06-02", Project: "Beacon", HoursWorked: 8, WorkDone: "d", MonthYear: "2025-06"}}, 3)

	return &world{
		svc:  &Service{Employees: empSvc, Projects: projSvc, Entries: entries, Summaries: sums},
		asha: asha,
		ravi: ravi,
	}
}

func TestOverview(t *testing.T) {
	w := newWorld(t)
	got, err := w.svc.Overview(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.EmployeeCount != 2 {
		t.Fatalf("expected 2 employees, got %d", got.EmployeeCount)
	}
	// June v2 dropped Asha to 9; only May's latest 10 remains.
	if len(got.TopPerformers) != 1 || got.TopPerformers[0].EmpCode != "E100" || got.TopPerformers[0].MonthYear != "2025-05" {
		t.Fatalf("unexpected top performers %+v", got.TopPerformers)
	}
	want := projects.StatusCounts{Live: 1, Hold: 1, Total: 2}
	if got.ProjectCountByStatus != want || len(got.Projects) != 2 {
		t.Fatalf("unexpected projects %+v %+v", got.ProjectCountByStatus, got.Projects)
	}
}

func TestSummaryFilters(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	all, err := w.svc.Summary(ctx, "org-1", SummaryRequest{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(all.Employees) != 2 || len(all.Timesheets) != 5 || len(all.Summaries) != 3 {
		t.Fatalf("unexpected totals: %d employees, %d timesheets, %d summaries", len(all.Employees), len(all.Timesheets), len(all.Summaries))
	}
	// Latest versions: Asha June 9, Asha May 10, Ravi June 7.25.
	if all.AverageRating == nil || *all.AverageRating != 8.75 {
		t.Fatalf("unexpected average %v", all.AverageRating)
	}

	got, err := w.svc.Summary(ctx, "org-1", SummaryRequest{EmployeeName: "asha", FromDate: "2025-06-01", ToDate: "2025-06-30"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(got.Employees) != 1 || len(got.Timesheets) != 3 || len(got.Summaries) != 1 {
		t.Fatalf("unexpected filtered result %+v", got)
	}
	if got.Timesheets[0].Date != "2025-06-04" || got.Timesheets[0].EmpID != "E100" || got.Timesheets[0].Name != "Asha Rao" {
		t.Fatalf("timesheets should be newest first with employee joined: %+v", got.Timesheets[0])
	}

	byProject, _ := w.svc.Summary(ctx, "org-1", SummaryRequest{EmpID: "e2", Project: "Beacon"})
	if len(byProject.Timesheets) != 1 || byProject.Timesheets[0].EmployeeID != w.ravi.ID {
		t.Fatalf("unexpected project filter result %+v", byProject.Timesheets)
	}

	if _, err := w.svc.Summary(ctx, "org-1", SummaryRequest{EmpID: "zzz"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := w.svc.Summary(ctx, "org-1", SummaryRequest{FromDate: "06/01/2025"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAverageRating(t *testing.T) {
	if AverageRating(nil) != nil {
		t.Fatalf("expected nil average without summaries")
	}
	got := AverageRating([]analyses.Summary{{Rating: 7}, {Rating: 8}, {Rating: 8}})
	if got == nil || *got != 7.67 {
		t.Fatalf("expected 7.67, got %v", got)
	}
}

func TestEmployeeDetail(t *testing.T) {
	w := newWorld(t)
	got, err := w.svc.EmployeeDetail(context.Background(), "org-1", "E100")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if got.Employee.ID != w.asha.ID || len(got.Timesheets) != 4 || len(got.Summaries) != 3 {
		t.Fatalf("unexpected detail %+v", got)
	}
	if got.Timesheets[0].Date != "2025-06-04" {
		t.Fatalf("timesheets should be newest first")
	}
	wantDaily := []HoursPoint{{"2025-05-05", 4}, {"2025-06-02", 8}, {"2025-06-03", 6.5}, {"2025-06-04", 0}}
	wantCum := []HoursPoint{{"2025-05-05", 4}, {"2025-06-02", 12}, {"2025-06-03", 18.5}, {"2025-06-04", 18.5}}
	for i := range wantDaily {
		if got.HoursByDay[i] != wantDaily[i] || got.CumulativeHours[i] != wantCum[i] {
			t.Fatalf("unexpected series at %d: %+v %+v", i, got.HoursByDay[i], got.CumulativeHours[i])
		}
	}
	if got.Days != (DayCounts{Worked: 3, Leave: 1}) {
		t.Fatalf("unexpected day counts %+v", got.Days)
	}
	if got.AverageRating == nil || *got.AverageRating != 9.5 {
		t.Fatalf("unexpected average %v", got.AverageRating)
	}

	if _, err := w.svc.EmployeeDetail(context.Background(), "org-2", w.asha.ID); !errors.Is(err, employees.ErrNotFound) {
		t.Fatalf("other tenant must not see employee, got %v", err)
	}
}

func TestHandlers(t *testing.T) {
	w := newWorld(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(w.svc).RegisterRoutes(r.Group("/api/v1", middleware.Tenant()))

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/v1/dashboard/overview", "", http.StatusOK},
		{http.MethodPost, "/api/v1/dashboard/summary", "", http.StatusOK},
		{http.MethodPost, "/api/v1/dashboard/summary", `{"emp_id":"nobody"}`, http.StatusNotFound},
		{http.MethodPost, "/api/v1/dashboard/summary", `{"from_date":"soon"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/dashboard/summary", `{`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/employees/" + w.ravi.ID, "", http.StatusOK},
		{http.MethodGet, "/api/v1/employees/missing", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.OrgIDHeader, "org-1")
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s %s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.body, tc.status, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/summary", strings.NewReader(`{"emp_id":"E200"}`))
	req.Header.Set(middleware.OrgIDHeader, "org-1")
	r.ServeHTTP(rec, req)
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["average_rating"] != 7.25 {
		t.Fatalf("unexpected average_rating %v", payload["average_rating"])
	}
}
