package log

import (
	"fmt"
	"sync"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/common"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int8

const (
	LogLevelNull    LogLevel = LogLevel(zap.FatalLevel)
	LogLevelDebug            = LogLevel(zap.DebugLevel)
	LogLevelInfo             = LogLevel(zap.InfoLevel)
	LogLevelWarning          = LogLevel(zap.WarnLevel)
	LogLevelError            = LogLevel(zap.ErrorLevel)
)

// Logger
type Logger struct {
	logger *zap.Logger
	Sugar  *zap.SugaredLogger
}

var (
	instance    *Logger
	once        sync.Once
	logRootPath string
	serviceName string

	// 默认log级别
	logLevel = LogLevelNull

	// 是否打印调用堆栈
	enableStacktrace = false
)

// SetLogRootPath path无需以/结尾
func SetLogRootPath(path string) {
	logRootPath = path
}

// InitLogFileBySvrName 生产环境日志文件按服务名区分目录
func InitLogFileBySvrName(svrName string) {
	serviceName = svrName
}

// SetStacktrace 是否开启堆栈打印
func SetStacktrace(enable bool) {
	enableStacktrace = enable
}

// InitLogLevel 显式指定日志级别，优先于配置文件
func InitLogLevel(l LogLevel) {
	logLevel = l
}

// GetInstance GetInstance
func GetInstance() *Logger {
	once.Do(func() {
		instance = createLogger()
	})
	return instance
}

func createLogger() *Logger {
	ret := &Logger{}
	var logConf zap.Config

	cfg := config.GetInstance()
	currentEnv := common.GetCurrentEnvironment()

	if currentEnv == common.EnvProd {
		logConf = zap.NewProductionConfig()
		logConf.Encoding = "json"

		logRootDir := cfg.LogConfig.LogRootDir
		if len(logRootPath) > 0 {
			logRootDir = logRootPath
		}
		if logPath, err := prepareLogFile(logRootDir, serviceName); err == nil {
			logConf.OutputPaths = []string{logPath}
			logConf.ErrorOutputPaths = []string{logPath}
		} else {
			fmt.Println("Production environment fallback to stderr:", err)
			logConf.OutputPaths = []string{"stderr"}
			logConf.ErrorOutputPaths = []string{"stderr"}
		}
	} else {
		// 开发和容器环境：使用开发配置，输出到stderr
		logConf = zap.NewDevelopmentConfig()
		logConf.OutputPaths = []string{"stderr"}
		logConf.ErrorOutputPaths = []string{"stderr"}
	}

	logConf.DisableStacktrace = !enableStacktrace && !cfg.LogConfig.EnableStacktrace

	if logLevel == LogLevelNull {
		// 没有被显示指定，从配置文件中加载默认值
		logLevel = LogLevel(cfg.LogConfig.LogLevel)
	}
	logConf.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel))

	var err error
	ret.logger, err = logConf.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Println("logConf.Build err:", err)
		ret.logger = zap.NewNop()
	}
	ret.Sugar = ret.logger.Sugar()
	return ret
}

// Sync 刷新缓冲，进程退出前调用
func Sync() {
	if instance != nil && instance.logger != nil {
		_ = instance.logger.Sync()
	}
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(template string, args ...interface{}) {
	GetInstance().Sugar.Debugf(template, args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(template string, args ...interface{}) {
	GetInstance().Sugar.Infof(template, args...)
}

// Warnf uses fmt.Sprintf to log a templated message.
func Warnf(template string, args ...interface{}) {
	GetInstance().Sugar.Warnf(template, args...)
}

// Errorf uses fmt.Sprintf to log a templated message.
func Errorf(template string, args ...interface{}) {
	GetInstance().Sugar.Errorf(template, args...)
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	GetInstance().Sugar.Fatalf(template, args...)
}
