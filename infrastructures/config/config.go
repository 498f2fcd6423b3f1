package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath 默认配置文件路径，可通过 AITRAVEL_CONFIG 覆盖
const DefaultPath = "/etc/aitravel/config.toml"

// PathEnv 配置文件路径环境变量
const PathEnv = "AITRAVEL_CONFIG"

var (
	instance *TravelConfig
	once     sync.Once
)

type log struct {
	LogRootDir       string `toml:"logRootDir"`       // 日志根目录
	LogLevel         int    `toml:"logLevel"`         //= LogLevelDebug //默认log级别
	EnableStacktrace bool   `toml:"enableStacktrace"` //= false //是否打印调用堆栈
}

// redis Redis配置结构体
type redis struct {
	Addr     string `toml:"addr"`     // redis服务器IP地址+端口号
	User     string `toml:"user"`     // redis服务器登录用户名
	Password string `toml:"password"` // redis服务器登录密码
	DB       int    `toml:"db"`       // 数据库号，默认0

	PoolSize     int `toml:"poolSize"`     // 连接池大小，默认10
	MinIdleConns int `toml:"minIdleConns"` // 最小空闲连接数，默认0
	MaxRetries   int `toml:"maxRetries"`   // 最大重试次数，默认3
	DialTimeout  int `toml:"dialTimeout"`  // 连接超时（秒），默认5
	ReadTimeout  int `toml:"readTimeout"`  // 读超时（秒），默认3
	WriteTimeout int `toml:"writeTimeout"` // 写超时（秒），默认3
}

// miniMaxConfig 大模型配置
type miniMaxConfig struct {
	APIKey      string  `toml:"apiKey"`      // API密钥，MINIMAX_API_KEY 优先
	Model       string  `toml:"model"`       // 模型名称
	BaseURL     string  `toml:"baseUrl"`     // API基础URL
	ChatPath    string  `toml:"chatPath"`    // 对话接口路径，OpenAI兼容服务填 /chat/completions
	MaxTokens   int     `toml:"maxTokens"`   // 最大token数，默认512
	Temperature float64 `toml:"temperature"` // 温度参数，默认0.1
	TopP        float64 `toml:"topP"`        // 采样参数，默认0.95
	Timeout     int     `toml:"timeout"`     // HTTP超时（秒），默认30
}

// extractConfig 字段提取配置
type extractConfig struct {
	RemoteTimeoutMs   int      `toml:"remoteTimeoutMs"`   // 远程推理超时（毫秒），默认8000
	DefaultTripDays   int      `toml:"defaultTripDays"`   // 只有出发日期时的默认行程天数，默认3
	FewPeople         int      `toml:"fewPeople"`         // "几个人" 对应人数，默认3
	EnablePlaceTagger bool     `toml:"enablePlaceTagger"` // 是否启用gse地名识别兜底
	PlaceDicts        []string `toml:"placeDicts"`        // gse词典文件，为空时使用内置词典
	ExtraPlaces       []string `toml:"extraPlaces"`       // 额外地名
	CacheRedis        string   `toml:"cacheRedis"`        // 远程结果缓存使用的redises键，为空不缓存
	CacheTTLSeconds   int      `toml:"cacheTTLSeconds"`   // 缓存过期（秒），默认600
	DisableRemote     bool     `toml:"disableRemote"`     // 只使用本地提取
}

type mysqlConfig struct {
	DSN             string `toml:"dsn"`
	MaxOpenConns    int    `toml:"maxOpenConns"`
	MaxIdleConns    int    `toml:"maxIdleConns"`
	ConnMaxIdleTime int    `toml:"connMaxIdleTime"`
	ConnMaxLifetime int    `toml:"connMaxLifetime"`
}

type serviceEndpointConfig struct {
	HTTPAddr string `toml:"httpAddr"`
}

type servicesConfig struct {
	Extractor serviceEndpointConfig `toml:"extractor"`
}

type TravelConfig struct {
	Environment   string           `toml:"environment"` // 环境配置 [dev, prod, container]
	LogConfig     log              `toml:"log"`
	Redises       map[string]redis `toml:"redises"`
	MiniMaxConfig miniMaxConfig    `toml:"minimax"` // 大模型配置
	Extract       extractConfig    `toml:"extract"` // 字段提取配置
	MySQL         mysqlConfig      `toml:"mysql"`   // MySQL配置
	Services      servicesConfig   `toml:"services"`
}

// GetInstance 读取配置单例。
// 配置文件不存在时使用默认值，格式错误时panic。
func GetInstance() *TravelConfig {
	once.Do(func() {
		_ = godotenv.Load()

		path := os.Getenv(PathEnv)
		if path == "" {
			path = DefaultPath
		}
		var err error
		instance, err = parseConfig(path)
		if err != nil {
			panic(err.Error())
		}
	})
	return instance
}

func parseConfig(path string) (*TravelConfig, error) {
	if len(path) == 0 {
		return nil, errors.New("config file path is null")
	}

	conf := &TravelConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err = toml.Decode(string(data), conf); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(os.Stderr, "[CONFIG] %s not found, using defaults\n", path)
	default:
		return nil, fmt.Errorf("read config file met error: %s", err.Error())
	}

	conf.applyEnv()
	conf.setDefaults()
	return conf, nil
}

// applyEnv 环境变量覆盖密钥类配置
func (c *TravelConfig) applyEnv() {
	if v := os.Getenv("MINIMAX_API_KEY"); v != "" {
		c.MiniMaxConfig.APIKey = v
	}
	if v := os.Getenv("MINIMAX_BASE_URL"); v != "" {
		c.MiniMaxConfig.BaseURL = v
	}
	if v := os.Getenv("MINIMAX_MODEL"); v != "" {
		c.MiniMaxConfig.Model = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.MySQL.DSN = v
	}
}

func (c *TravelConfig) setDefaults() {
	if c.Environment == "" {
		c.Environment = "dev"
	}

	// 设置MiniMax配置默认值
	if c.MiniMaxConfig.Model == "" {
		c.MiniMaxConfig.Model = "MiniMax-M1"
	}
	if c.MiniMaxConfig.BaseURL == "" {
		c.MiniMaxConfig.BaseURL = "https://api.minimaxi.com"
	}
	if c.MiniMaxConfig.ChatPath == "" {
		c.MiniMaxConfig.ChatPath = "/v1/text/chatcompletion_v2"
	}
	if c.MiniMaxConfig.MaxTokens <= 0 {
		c.MiniMaxConfig.MaxTokens = 512
	}
	if c.MiniMaxConfig.Temperature <= 0 {
		c.MiniMaxConfig.Temperature = 0.1
	}
	if c.MiniMaxConfig.TopP <= 0 {
		c.MiniMaxConfig.TopP = 0.95
	}
	if c.MiniMaxConfig.Timeout <= 0 {
		c.MiniMaxConfig.Timeout = 30
	}

	c.Extract.setDefaults()

	if c.Services.Extractor.HTTPAddr == "" {
		c.Services.Extractor.HTTPAddr = ":8080"
	}
}

func (e *extractConfig) setDefaults() {
	if e.RemoteTimeoutMs <= 0 {
		e.RemoteTimeoutMs = 8000
	}
	if e.DefaultTripDays <= 0 {
		e.DefaultTripDays = 3
	}
	if e.FewPeople <= 0 {
		e.FewPeople = 3
	}
	if e.CacheTTLSeconds <= 0 {
		e.CacheTTLSeconds = 600
	}
}
