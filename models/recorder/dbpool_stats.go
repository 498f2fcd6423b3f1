package recorder

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// StartPoolStatsReporter 定期上报连接池状态，返回停止函数。
func StartPoolStatsReporter(parent context.Context, db *gorm.DB, interval time.Duration) (stop func()) {
	if db == nil {
		return func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return func() {}
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	report := func() {
		s := sqlDB.Stats()
		ReportDBPoolStats(DBPoolStats{
			Open:         s.OpenConnections,
			InUse:        s.InUse,
			Idle:         s.Idle,
			WaitCount:    s.WaitCount,
			WaitDuration: s.WaitDuration,
		})
	}
	report()

	ctx, cancel := context.WithCancel(parent)
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				report()
			}
		}
	}()
	return cancel
}
