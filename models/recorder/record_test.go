package recorder

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
)

const insertSQL = "INSERT INTO `extraction_records`"

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return NewRepo(gdb), mock
}

func sampleRecord(id string) ExtractionRecord {
	return ExtractionRecord{
		RequestID:   id,
		Utterance:   "预算大概8000左右",
		Source:      "local",
		Fields:      `{"budget":8000}`,
		ReferenceAt: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewExtractionRecord(t *testing.T) {
	ref := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	out := extract.Outcome{
		Fields:    extract.Fields{Destination: "云南", HeadCount: extract.IntPtr(4)},
		Source:    extract.SourceLocal,
		RemoteErr: errors.New(strings.Repeat("x", 600)),
	}
	rec := NewExtractionRecord("req-1", "去云南", ref, out)

	if rec.RequestID != "req-1" || rec.Utterance != "去云南" || rec.Source != "local" {
		t.Fatalf("record=%+v", rec)
	}
	if rec.Fields != `{"destination":"云南","head_count":4}` {
		t.Fatalf("fields=%s", rec.Fields)
	}
	if len(rec.RemoteErr) != maxRemoteErrLen {
		t.Fatalf("remote err len=%d", len(rec.RemoteErr))
	}
	if !rec.ReferenceAt.Equal(ref) {
		t.Fatalf("reference=%v", rec.ReferenceAt)
	}
}

func TestInsertBatchWithStats(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 2))

	rows := []ExtractionRecord{sampleRecord("a"), sampleRecord("b"), sampleRecord("a")}
	inserted, ignored, err := repo.InsertBatchWithStats(context.Background(), rows, 10)
	if err != nil {
		t.Fatalf("InsertBatchWithStats: %v", err)
	}
	if inserted != 2 || ignored != 1 {
		t.Fatalf("inserted=%d ignored=%d", inserted, ignored)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertBatchWithStats_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	if _, _, err := repo.InsertBatchWithStats(context.Background(), nil, 10); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertWithRetry(t *testing.T) {
	old := baseBackoff
	baseBackoff = time.Millisecond
	t.Cleanup(func() { baseBackoff = old })

	var (
		mu      sync.Mutex
		retries []string
	)
	InstallHooks(&Hooks{OnDBRetry: func(reason string) {
		mu.Lock()
		defer mu.Unlock()
		retries = append(retries, reason)
	}})
	t.Cleanup(func() { InstallHooks(&Hooks{}) })

	t.Run("deadlock then ok", func(t *testing.T) {
		retries = nil
		repo, mock := newMockRepo(t)
		mock.ExpectExec(insertSQL).WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
		mock.ExpectExec(insertSQL).WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"})
		mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 1))

		inserted, _, didRetry, err := insertWithRetry(context.Background(), repo, []ExtractionRecord{sampleRecord("a")}, 10)
		if err != nil || inserted != 1 || !didRetry {
			t.Fatalf("inserted=%d didRetry=%v err=%v", inserted, didRetry, err)
		}
		if fmt.Sprint(retries) != "[deadlock timeout]" {
			t.Fatalf("retries=%v", retries)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("permanent error not retried", func(t *testing.T) {
		retries = nil
		repo, mock := newMockRepo(t)
		mock.ExpectExec(insertSQL).WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"})

		_, _, didRetry, err := insertWithRetry(context.Background(), repo, []ExtractionRecord{sampleRecord("a")}, 10)
		if err == nil || didRetry {
			t.Fatalf("didRetry=%v err=%v", didRetry, err)
		}
		if len(retries) != 0 {
			t.Fatalf("retries=%v", retries)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		for i := 0; i <= maxInsertRetries; i++ {
			mock.ExpectExec(insertSQL).WillReturnError(&mysql.MySQLError{Number: 2013, Message: "Lost connection"})
		}
		_, _, didRetry, err := insertWithRetry(context.Background(), repo, []ExtractionRecord{sampleRecord("a")}, 10)
		if err == nil || !didRetry {
			t.Fatalf("didRetry=%v err=%v", didRetry, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		err      error
		deadlock bool
		timeout  bool
	}{
		{nil, false, false},
		{&mysql.MySQLError{Number: 1213}, true, false},
		{&mysql.MySQLError{Number: 1205}, false, true},
		{&mysql.MySQLError{Number: 2006}, false, true},
		{&mysql.MySQLError{Number: 2013}, false, true},
		{&mysql.MySQLError{Number: 1062}, false, false},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), false, true},
		{fmt.Errorf("wrap: %w", driver.ErrBadConn), false, true},
		{errors.New("dial tcp: connection refused"), false, true},
		{errors.New("Deadlock detected"), true, false},
		{errors.New("syntax error"), false, false},
	}
	for _, tc := range cases {
		if got := isDeadlock(tc.err); got != tc.deadlock {
			t.Fatalf("isDeadlock(%v)=%v", tc.err, got)
		}
		if got := isTimeout(tc.err); got != tc.timeout {
			t.Fatalf("isTimeout(%v)=%v", tc.err, got)
		}
	}
}

func TestWriter_FlushOnClose(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 3))

	var (
		mu   sync.Mutex
		rows = map[string]int64{}
	)
	InstallHooks(&Hooks{OnDBInsertRows: func(result string, count int64) {
		mu.Lock()
		defer mu.Unlock()
		rows[result] += count
	}})
	t.Cleanup(func() { InstallHooks(&Hooks{}) })

	w := NewWriter(repo, WriterOptions{BatchSize: 10, FlushInterval: time.Hour})
	for _, id := range []string{"a", "b", "c"} {
		if !w.Enqueue(sampleRecord(id)) {
			t.Fatalf("enqueue %s failed", id)
		}
	}
	w.Close()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if rows["inserted"] != 3 {
		t.Fatalf("rows=%v", rows)
	}

	if w.Enqueue(sampleRecord("late")) {
		t.Fatalf("enqueue after close should fail")
	}
}

func TestWriter_BatchSize(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(3, 1))

	w := NewWriter(repo, WriterOptions{BatchSize: 2, FlushInterval: time.Hour})
	for _, id := range []string{"a", "b", "c"} {
		w.Enqueue(sampleRecord(id))
	}
	w.Close()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWriter_QueueFull(t *testing.T) {
	repo, _ := newMockRepo(t)

	dropped := 0
	InstallHooks(&Hooks{OnQueueDropped: func() { dropped++ }})
	t.Cleanup(func() { InstallHooks(&Hooks{}) })

	// 不启动消费，直接验证满队列丢弃
	w := &Writer{repo: repo, ch: make(chan ExtractionRecord, 1), done: make(chan struct{})}
	if !w.Enqueue(sampleRecord("a")) {
		t.Fatalf("first enqueue should succeed")
	}
	if w.Enqueue(sampleRecord("b")) {
		t.Fatalf("second enqueue should be dropped")
	}
	if dropped != 1 {
		t.Fatalf("dropped=%d", dropped)
	}
}
