package recorder

import (
	"context"
	"database/sql/driver"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const maxInsertRetries = 3

// baseBackoff 首次重试等待，之后逐次翻倍
var baseBackoff = 100 * time.Millisecond

// insertWithRetry attempts DB insert with retry logic for transient errors.
// Returns: inserted, ignored, didRetry, error
func insertWithRetry(ctx context.Context, repo *Repo, rows []ExtractionRecord, batchSize int) (int64, int64, bool, error) {
	var lastErr error
	didRetry := false

	for attempt := 0; attempt <= maxInsertRetries; attempt++ {
		if attempt > 0 {
			didRetry = true
			// Exponential backoff with jitter: 100ms, 200ms, 400ms (±20%)
			backoff := baseBackoff * time.Duration(1<<uint(attempt-1))
			jitter := time.Duration(float64(backoff) * 0.2 * (rand.Float64()*2 - 1))

			select {
			case <-ctx.Done():
				return 0, 0, didRetry, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		inserted, ignored, err := repo.InsertBatchWithStats(ctx, rows, batchSize)
		if err == nil {
			return inserted, ignored, didRetry, nil
		}
		lastErr = err

		if isDeadlock(err) {
			ReportDBRetry("deadlock")
			continue
		}
		if isTimeout(err) {
			ReportDBRetry("timeout")
			continue
		}
		break
	}

	return 0, 0, didRetry, lastErr
}

// isDeadlock checks if error is a MySQL deadlock
func isDeadlock(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 1213: Deadlock found when trying to get lock
		return mysqlErr.Number == 1213
	}
	return strings.Contains(strings.ToLower(err.Error()), "deadlock")
}

// isTimeout checks if error is a timeout or transient connection issue
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1205: // ER_LOCK_WAIT_TIMEOUT
			return true
		case 2006: // CR_SERVER_GONE_ERROR
			return true
		case 2013: // CR_SERVER_LOST
			return true
		}
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "Timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset")
}
