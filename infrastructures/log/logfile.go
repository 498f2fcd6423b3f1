package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// logFileName 日志文件按天命名
func logFileName(svrName string, now time.Time) string {
	name := "aitravel"
	if len(svrName) > 0 {
		name = svrName
	}
	return fmt.Sprintf("%s-log_%s", name, now.Format("2006-01-02"))
}

// prepareLogFile 创建日志目录并返回日志文件完整路径
func prepareLogFile(rootDir, svrName string) (string, error) {
	if rootDir == "" {
		return "", fmt.Errorf("log root dir is empty")
	}
	dir := rootDir
	if len(svrName) > 0 {
		dir = filepath.Join(rootDir, svrName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName(svrName, time.Now())), nil
}
