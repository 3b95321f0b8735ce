package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap/zaptest"

	"github.com/Shresth-Senwal/djedops2nd/internal/testutil"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

func TestConsoleStorage_New(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))

	if storage == nil {
		t.Fatal("expected non-nil storage")
	}
	if storage.logger == nil {
		t.Error("expected non-nil logger")
	}
}

func TestConsoleStorage_StoreOpportunity(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))

	opp := testutil.CreateTestOpportunity("a1b2c3d4-0000-0000-0000-000000000000")
	ctx := context.Background()

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.StoreOpportunity(ctx, opp)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("ARBITRAGE SIGNAL: MINT")) {
		t.Error("expected output to contain 'ARBITRAGE SIGNAL: MINT'")
	}
	if !bytes.Contains([]byte(output), []byte(opp.ID[:8])) {
		t.Errorf("expected output to contain short id %s", opp.ID[:8])
	}
	if !bytes.Contains([]byte(output), []byte("(profitable)")) {
		t.Error("expected profitable opportunity to be marked as such")
	}
}

func TestConsoleStorage_RunHistoryNewestFirst(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := testutil.CreateTestRunResult(fmt.Sprintf("run-%d", i), 1)
		if err := storage.StoreWorkflowRun(ctx, run); err != nil {
			t.Fatalf("StoreWorkflowRun: %v", err)
		}
	}

	runs, err := storage.ListWorkflowRuns(ctx)
	if err != nil {
		t.Fatalf("ListWorkflowRuns: %v", err)
	}

	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}
	if runs[2].ID != "run-0" {
		t.Errorf("expected oldest run last, got %s", runs[2].ID)
	}
}

func TestConsoleStorage_RunHistoryIsBounded(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < consoleRunLimit+10; i++ {
		run := testutil.CreateTestRunResult(fmt.Sprintf("run-%d", i), 1)
		if err := storage.StoreWorkflowRun(ctx, run); err != nil {
			t.Fatalf("StoreWorkflowRun: %v", err)
		}
	}

	runs, err := storage.ListWorkflowRuns(ctx)
	if err != nil {
		t.Fatalf("ListWorkflowRuns: %v", err)
	}

	if len(runs) != consoleRunLimit {
		t.Errorf("expected history capped at %d, got %d", consoleRunLimit, len(runs))
	}
	// Newest survives the cap, the oldest entries fall off.
	if runs[0].ID != fmt.Sprintf("run-%d", consoleRunLimit+9) {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestConsoleStorage_ClearWorkflowRuns(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))
	ctx := context.Background()

	_ = storage.StoreWorkflowRun(ctx, testutil.CreateTestRunResult("run-1", 1))

	if err := storage.ClearWorkflowRuns(ctx); err != nil {
		t.Fatalf("ClearWorkflowRuns: %v", err)
	}

	runs, _ := storage.ListWorkflowRuns(ctx)
	if len(runs) != 0 {
		t.Errorf("expected empty history after clear, got %d runs", len(runs))
	}
}

func TestConsoleStorage_Close(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))

	if err := storage.Close(); err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
}

func TestPostgresStorage_StoreOpportunity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	opp := testutil.CreateTestOpportunity("a1b2c3d4-0000-0000-0000-000000000000")
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO arbitrage_opportunities").
		WithArgs(
			opp.ID,
			sqlmock.AnyArg(), // detected_at
			string(opp.Signal),
			opp.DexPrice,
			opp.ProtocolPrice,
			opp.Spread,
			opp.SpreadPercent,
			opp.EstimatedNetProfit,
			opp.RawProfit,
			opp.Profitable,
			opp.Liquidity,
			string(opp.Status),
			opp.Source,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreOpportunity(ctx, opp)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_StoreOpportunity_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	mock.ExpectExec("INSERT INTO arbitrage_opportunities").
		WillReturnError(errors.New("connection lost"))

	err = storage.StoreOpportunity(context.Background(),
		testutil.CreateTestOpportunity("a1b2c3d4-0000-0000-0000-000000000000"))
	if err == nil {
		t.Error("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_StoreWorkflowRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	run := testutil.CreateTestRunResult("run-1", 2)

	mock.ExpectExec("INSERT INTO workflow_runs").
		WithArgs(
			run.ID,
			string(run.Status),
			sqlmock.AnyArg(), // started_at
			run.Duration,
			sqlmock.AnyArg(), // payload
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreWorkflowRun(context.Background(), run)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_ListWorkflowRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"id":"run-2","status":"COMPLETED","records":[],"startedAt":"2026-08-30T10:00:00Z","durationSeconds":0.3}`)).
		AddRow([]byte(`{"id":"run-1","status":"BLOCKED","records":[],"startedAt":"2026-08-30T09:00:00Z","durationSeconds":0.1}`))

	mock.ExpectQuery("SELECT payload FROM workflow_runs").
		WithArgs(postgresRunLimit).
		WillReturnRows(rows)

	runs, err := storage.ListWorkflowRuns(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("expected run-2 first, got %s", runs[0].ID)
	}
	if runs[1].Status != workflow.RunBlocked {
		t.Errorf("expected BLOCKED status, got %s", runs[1].Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_ListWorkflowRuns_BadPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	rows := sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`{not json`))

	mock.ExpectQuery("SELECT payload FROM workflow_runs").
		WithArgs(postgresRunLimit).
		WillReturnRows(rows)

	_, err = storage.ListWorkflowRuns(context.Background())
	if err == nil {
		t.Error("expected error for malformed payload, got nil")
	}
}

func TestPostgresStorage_ClearWorkflowRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	mock.ExpectExec("DELETE FROM workflow_runs").
		WillReturnResult(sqlmock.NewResult(0, 4))

	err = storage.ClearWorkflowRuns(context.Background())
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	mock.ExpectClose()

	if err := storage.Close(); err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
}
