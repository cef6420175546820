package projects

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateDefaultsAndValidatesStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	p, err := svc.Create(ctx, "org-1", CreateInput{Name: "Atlas", ClientName: "Globex"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != StatusLive {
		t.Fatalf("expected default live, got %q", p.Status)
	}
	if _, err := svc.Create(ctx, "org-1", CreateInput{Name: "Bad", Status: "archived"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if _, err := svc.Create(ctx, "org-1", CreateInput{Name: "atlas"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	for _, in := range []CreateInput{
		{Name: "A", Status: "live"},
		{Name: "B", Status: "HOLD"},
		{Name: "C", Status: "completed"},
		{Name: "D"},
	} {
		if _, err := svc.Create(ctx, "org-1", in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}
	if _, err := svc.Create(ctx, "org-2", CreateInput{Name: "Other"}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	counts, err := svc.CountByStatus(ctx, "org-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	want := StatusCounts{Live: 2, Hold: 1, Completed: 1, Total: 4}
	if counts != want {
		t.Fatalf("got %+v want %+v", counts, want)
	}
}

func TestPGCountByStatus(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("live", 3).
			AddRow("completed", 2))

	counts, err := (&PGRepo{DB: database}).CountByStatus(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts.Live != 3 || counts.Completed != 2 || counts.Hold != 0 || counts.Total != 5 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
