package uploads

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/storage/object/local"
)

func TestSaveOpenAndScopeByOrg(t *testing.T) {
	ctx := context.Background()
	svc := NewService(local.New(t.TempDir()), NewMemoryRepo())

	u, err := svc.Save(ctx, "org-1", "june.csv", strings.NewReader("Date\n2025-06-02\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if u.MimeType != "text/csv" || u.SizeBytes != 16 {
		t.Fatalf("unexpected upload %+v", u)
	}
	if _, err := svc.Get(ctx, "org-2", u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other org must not see upload, got %v", err)
	}
	if _, err := svc.Save(ctx, "org-1", " ", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1", middleware.Tenant()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+u.ID+"/file", nil)
	req.Header.Set(middleware.OrgIDHeader, "org-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "Date\n2025-06-02\n" {
		t.Fatalf("unexpected download %d %q", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "june.csv") {
		t.Fatalf("missing attachment header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+u.ID, nil)
	req.Header.Set(middleware.OrgIDHeader, "org-2")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 across tenants, got %d", resp.Code)
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
		if err := repo.Create(ctx, Upload{ID: name, OrgID: "org-1", FileName: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, err := repo.List(ctx, "org-1", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].FileName != "c.csv" || list[1].FileName != "b.csv" {
		t.Fatalf("unexpected order %+v", list)
	}
}

func TestPGRepoCreate(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO uploads")).
		WithArgs("u1", "org-1", "june.csv", "key", "text/csv", int64(10), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = (&PGRepo{DB: database}).Create(context.Background(), Upload{
		ID: "u1", OrgID: "org-1", FileName: "june.csv", StorageKey: "key", MimeType: "text/csv", SizeBytes: 10, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
