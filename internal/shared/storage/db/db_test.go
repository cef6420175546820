package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nil, driver.ErrSkip }
func (nopConn) Ping(ctx context.Context) error            { return nil }

var registerTestDriverOnce sync.Once

func withTestDriver(t *testing.T) func() {
	t.Helper()
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 {
		t.Fatalf("expected MaxIdleConns=3, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 20*time.Minute {
		t.Fatalf("expected ConnMaxLifetime=20m, got %s", opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != time.Second {
		t.Fatalf("expected PingTimeout=1s, got %s", opts.PingTimeout)
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE t").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	if err := WithTx(context.Background(), database, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE t SET x = 1")
		return err
	}); err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	if err := WithTx(context.Background(), database, func(tx *sql.Tx) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(unique) || IsForeignKeyViolation(unique) {
		t.Fatalf("unique violation misclassified")
	}
	fk := &pgconn.PgError{Code: "23503"}
	if !IsForeignKeyViolation(fk) || IsUniqueViolation(fk) {
		t.Fatalf("fk violation misclassified")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatalf("plain error should not classify")
	}
}

func TestWhereBuilder(t *testing.T) {
	w := NewWhere("org-1")
	w.Add("employee_id = ?", "emp-1").
		Add("work_date BETWEEN ? AND ?", "2025-06-01", "2025-06-30").
		In("project", []string{"A", "B"})

	wantSQL := "employee_id = $2 AND work_date BETWEEN $3 AND $4 AND project IN ($5, $6)"
	if got := w.SQL(); got != wantSQL {
		t.Fatalf("SQL = %q, want %q", got, wantSQL)
	}
	wantArgs := []any{"org-1", "emp-1", "2025-06-01", "2025-06-30", "A", "B"}
	if !reflect.DeepEqual(w.Args(), wantArgs) {
		t.Fatalf("Args = %v, want %v", w.Args(), wantArgs)
	}
	if w.Next() != "$7" {
		t.Fatalf("Next = %q", w.Next())
	}
	if NewWhere().SQL() != "TRUE" {
		t.Fatalf("empty builder should render TRUE")
	}
	if NewWhere().In("x", nil).SQL() != "FALSE" {
		t.Fatalf("empty IN should render FALSE")
	}
}

func TestWhereBindKeepsConditions(t *testing.T) {
	w := NewWhere("org-1").Add("month_year = ?", "2025-06")
	if got := w.Bind(7.5); got != "$3" {
		t.Fatalf("Bind = %q", got)
	}
	if w.SQL() != "month_year = $2" {
		t.Fatalf("Bind should not add a condition, got %q", w.SQL())
	}
	if len(w.Args()) != 3 || w.Args()[2] != 7.5 {
		t.Fatalf("Args = %v", w.Args())
	}
}

func TestLikeContainsEscapes(t *testing.T) {
	if got := LikeContains(`50%_a\b`); got != `%50\%\_a\\b%` {
		t.Fatalf("LikeContains = %q", got)
	}
}

func TestMigrateNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationFiles.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(entries))
	}
}
