package analyses

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
	"logit-backend/internal/shared/storage/object/local"
	"logit-backend/internal/shared/telemetry"
	"logit-backend/internal/timesheets"
	"logit-backend/internal/uploads"
)

type fakeGen struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	prompts []string
}

func (f *fakeGen) Name() string { return "fake" }

func (f *fakeGen) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return llm.Response{}, ctx.Err()
		}
	}
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, Model: "fake-model"}, nil
}

type fixture struct {
	svc       *Service
	gen       *fakeGen
	uploads   *uploads.MemoryRepo
	entries   *timesheets.MemoryRepo
	summaries *MemoryRepo
	employee  employees.Employee
}

const juneCSV = "Date,Day,Employee ID,Name,Project,Team,Hours Worked,Work Assigned,Work Done\n" +
	"2025-06-02,Monday,E100,Asha Rao,Atlas,Core,8,Build login,Built login\n" +
	"2025-06-03,Tuesday,E100,Asha Rao,Atlas,Core,7.5,Fix bugs,Fixed 3 bugs\n" +
	"2025-06-07,Saturday,E100,Asha Rao,Atlas,Core,0,,\n" +
	"2025-06-09,Monday,E100,Asha Rao,Atlas,Core,0,,\n"

const goodResult = "<<<RESULT\n{\"emp_id\":\"E100\",\"month_year\":\"JUNE 2025\",\"summary\":\"Delivered login and fixed bugs.\",\"rating\":8.5}\nRESULT>>>"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var logs bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&logs))

	ctx := context.Background()
	empSvc := employees.NewService(employees.NewMemoryRepo())
	emp, err := empSvc.Create(ctx, "org-1", employees.CreateInput{EmpCode: "E100", Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	upRepo := uploads.NewMemoryRepo()
	entries := timesheets.NewMemoryRepo()
	summaries := NewMemoryRepo(entries)
	gen := &fakeGen{text: goodResult}
	svc := &Service{
		Uploads:   uploads.NewService(local.New(t.TempDir()), upRepo),
		Employees: empSvc,
		Repo:      summaries,
		Analyzer:  &llm.Analyzer{Gen: gen, Timeout: time.Second},
	}
	return &fixture{svc: svc, gen: gen, uploads: upRepo, entries: entries, summaries: summaries, employee: emp}
}

func (f *fixture) uploadCount(t *testing.T) int {
	t.Helper()
	list, err := f.uploads.List(context.Background(), "org-1", 100, 0)
	if err != nil {
		t.Fatalf("list uploads: %v", err)
	}
	return len(list)
}

func (f *fixture) summaryCount(t *testing.T) int {
	t.Helper()
	list, err := f.summaries.List(context.Background(), "org-1", Filter{})
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	return len(list)
}
