package common

import (
	"fmt"
	"os"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"
)

// Environment 运行环境类型
type Environment string

const (
	EnvDev       Environment = "dev"       // 开发环境
	EnvProd      Environment = "prod"      // 生产环境
	EnvContainer Environment = "container" // 容器环境
)

// validEnvironments 合法的环境值列表
var validEnvironments = map[string]bool{
	"dev":       true,
	"prod":      true,
	"container": true,
}

// GetCurrentEnvironment 从配置文件读取当前运行环境，非法值时按系统环境推导
func GetCurrentEnvironment() Environment {
	return resolveEnvironment(config.GetInstance().Environment)
}

func resolveEnvironment(configEnv string) Environment {
	if validEnvironments[configEnv] {
		return Environment(configEnv)
	}
	fmt.Fprintf(os.Stderr, "[ENV_ERROR] environment值'%s'非法，合法值为: dev, prod, container\n", configEnv)
	return deriveEnvironmentFromSystem()
}

// deriveEnvironmentFromSystem 通过系统环境推导合理的环境值
func deriveEnvironmentFromSystem() Environment {
	if IsRunningInContainer() {
		return EnvContainer
	}
	if os.Getenv("GIN_MODE") == "release" {
		return EnvProd
	}
	return EnvDev
}

// ShouldUseStderr 判断是否应该使用stderr输出（dev和container环境）
func ShouldUseStderr() bool {
	env := GetCurrentEnvironment()
	return env == EnvDev || env == EnvContainer
}

// IsRunningInContainer 检测是否在容器环境中运行
func IsRunningInContainer() bool {
	containerIndicators := []string{
		"KUBERNETES_SERVICE_HOST", // Kubernetes环境
		"DOCKER_CONTAINER",        // Docker环境
		"container",               // 通用容器环境变量
	}

	for _, indicator := range containerIndicators {
		if os.Getenv(indicator) != "" {
			return true
		}
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
