package keywords

import (
	"github.com/pkg/errors"
)

// 错误类型定义
var (
	ErrNotInitialized     = errors.New("tagger not initialized")
	ErrDictionaryNotFound = errors.New("dictionary not found")
)

// WrapErrorf 包装错误并添加格式化消息
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// IsError 检查错误类型
func IsError(err error, target error) bool {
	return errors.Is(err, target)
}
