package mysql

import (
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"
)

// ErrNotConfigured 未配置 mysql.dsn
var ErrNotConfigured = errors.New("mysql dsn not configured")

// Open 按配置打开连接池，DSN 为空时返回 ErrNotConfigured
func Open() (*gorm.DB, error) {
	cfg := config.GetInstance().MySQL
	if cfg.DSN == "" {
		return nil, ErrNotConfigured
	}

	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return db, nil
}

// normalizeDSN 强制 parseTime，datetime 列才能扫描为 time.Time
func normalizeDSN(dsn string) (string, error) {
	c, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	c.ParseTime = true
	if c.Loc == nil {
		c.Loc = time.Local
	}
	return c.FormatDSN(), nil
}
