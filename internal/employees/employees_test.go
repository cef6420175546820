package employees

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/middleware"
)

func TestResolveByIDThenCode(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	emp, err := svc.Create(ctx, "org-1", CreateInput{EmpCode: "E100", Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := svc.Resolve(ctx, "org-1", emp.ID)
	if err != nil || byID.EmpCode != "E100" {
		t.Fatalf("resolve by id: %+v %v", byID, err)
	}
	byCode, err := svc.Resolve(ctx, "org-1", "E100")
	if err != nil || byCode.ID != emp.ID {
		t.Fatalf("resolve by code: %+v %v", byCode, err)
	}
	if _, err := svc.Resolve(ctx, "org-2", "E100"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other tenant must not resolve, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "org-1", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	for _, in := range []CreateInput{
		{EmpCode: "E2", Name: "Ravi Kumar"},
		{EmpCode: "E1", Name: "Asha Rao"},
		{EmpCode: "X9", Name: "Meera"},
	} {
		if _, err := svc.Create(ctx, "org-1", in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, "org-1", CreateInput{EmpCode: "E1", Name: "Dup"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all sorted", filter: Filter{}, want: []string{"E1", "E2", "X9"}},
		{name: "query matches code", filter: Filter{Query: "e"}, want: []string{"E1", "E2", "X9"}},
		{name: "query matches name", filter: Filter{Query: "RAO"}, want: []string{"E1"}},
		{name: "name filter", filter: Filter{Name: "kumar"}, want: []string{"E2"}},
		{name: "code filter", filter: Filter{EmpCode: "x"}, want: []string{"X9"}},
	}
	for _, tc := range cases {
		got, err := svc.List(ctx, "org-1", tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		var codes []string
		for _, e := range got {
			codes = append(codes, e.EmpCode)
		}
		if len(codes) != len(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, codes, tc.want)
		}
		for i := range codes {
			if codes[i] != tc.want[i] {
				t.Fatalf("%s: got %v want %v", tc.name, codes, tc.want)
			}
		}
	}
}

func TestHandlerCreateAndList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1", middleware.Tenant())
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(g)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewBufferString(`{"emp_code":"E1","name":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OrgIDHeader, "org-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees?q=as", nil)
	req.Header.Set(middleware.OrgIDHeader, "org-1")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	var body struct {
		Items []Employee `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].OrgID != "org-1" {
		t.Fatalf("unexpected items %+v", body.Items)
	}
}

func TestPGRepoListBuildsFilters(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()
	repo := &PGRepo{DB: database}

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE org_id = $1 AND emp_code ILIKE $2 AND name ILIKE $3 ORDER BY emp_code")).
		WithArgs("org-1", "%e1%", "%asha%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "emp_code", "name", "designation", "created_at"}).
			AddRow("id-1", "org-1", "E1", "Asha", "Engineer", created))

	list, err := repo.List(context.Background(), "org-1", Filter{EmpCode: "e1", Name: "asha"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Designation != "Engineer" {
		t.Fatalf("unexpected list %+v", list)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE org_id = $1 AND emp_code = $2")).
		WithArgs("org-1", "E404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "emp_code", "name", "designation", "created_at"}))
	if _, err := repo.GetByCode(context.Background(), "org-1", "E404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
