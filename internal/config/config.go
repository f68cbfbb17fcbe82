package config

import (
	"fmt"
	"time"

	"amazonprice/internal/api"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 AMAZON_PRICE_PAAPI_ACCESS_KEY
const EnvPrefix = "AMAZON_PRICE"

// DefaultAssociateTag 未配置联盟标签时使用
const DefaultAssociateTag = "amazon-price"

// Config 应用程序配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	PAAPI     PAAPIConfig     `mapstructure:"paapi"`
	Server    ServerConfig    `mapstructure:"server"`
	Watch     []WatchJob      `mapstructure:"watch"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, production
}

// SchedulerConfig 调度器配置
type SchedulerConfig struct {
	DefaultTimeout string `mapstructure:"default_timeout"` // 例如: "2m"
	Location       string `mapstructure:"location"`        // 例如: "Europe/Berlin"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // 日志输出路径，为空时只输出到控制台
	MaxSize    int    `mapstructure:"max_size"`    // 日志文件最大大小(MB)
	MaxBackups int    `mapstructure:"max_backups"` // 保留的日志文件数量
	MaxAge     int    `mapstructure:"max_age"`     // 日志保留天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧日志
}

// PAAPIConfig 商品广告接口配置
type PAAPIConfig struct {
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	AssociateTag string `mapstructure:"associate_tag"`
	Country      string `mapstructure:"country"` // 国家代码或站点名，例如 "DE"、"germany"
	Scheme       string `mapstructure:"scheme"`
	Timeout      string `mapstructure:"timeout"` // 例如: "30s"

	// 解析后的时间，由 Load 函数填充
	TimeoutDuration time.Duration
}

// Credentials 返回签名所需的凭证
func (p PAAPIConfig) Credentials() api.Credentials {
	return api.Credentials{
		AccessKeyID:  p.AccessKey,
		SecretKey:    p.SecretKey,
		AssociateTag: p.AssociateTag,
	}
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"` // 是否启用服务器
	Host    string `mapstructure:"host"`    // 监听地址
	Port    int    `mapstructure:"port"`    // 监听端口
	Mode    string `mapstructure:"mode"`    // gin 模式: debug, release, test
}

// WatchJob 定时价格监控任务
type WatchJob struct {
	Name     string        `mapstructure:"name"`
	Schedule string        `mapstructure:"schedule"` // 带秒的 cron 表达式
	Timeout  string        `mapstructure:"timeout"`  // 为空时使用 scheduler.default_timeout
	Enabled  bool          `mapstructure:"enabled"`
	Targets  []WatchTarget `mapstructure:"targets"`

	// 解析后的时间，由 Load 函数填充
	TimeoutDuration time.Duration
}

// WatchTarget 监控任务中的一次查询。ID、EAN、Keywords 三选一，按此顺序优先。
type WatchTarget struct {
	ID       string `mapstructure:"id"`
	EAN      string `mapstructure:"ean"`
	Keywords string `mapstructure:"keywords"`
	Country  string `mapstructure:"country"` // 为空时使用 paapi.country
	Price    string `mapstructure:"price"`   // "min..max"
	Index    string `mapstructure:"index"`
	Node     string `mapstructure:"node"`
	Page     int    `mapstructure:"page"`
	Limit    int    `mapstructure:"limit"`
	One      bool   `mapstructure:"one"`
	Images   bool   `mapstructure:"images"`
}

// Load 加载配置。flags 不为 nil 时，其中已设置的命令行参数覆盖文件和环境变量。
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	// 设置环境变量
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 绑定命令行参数
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 解析时间字符串
	if err := config.parseDurations(); err != nil {
		return nil, fmt.Errorf("failed to parse durations: %w", err)
	}

	return &config, nil
}

// parseDurations 解析时间字符串
func (c *Config) parseDurations() error {
	if c.PAAPI.Timeout != "" {
		duration, err := time.ParseDuration(c.PAAPI.Timeout)
		if err != nil {
			return fmt.Errorf("invalid paapi.timeout: %w", err)
		}
		c.PAAPI.TimeoutDuration = duration
	}

	for i := range c.Watch {
		job := &c.Watch[i]
		if job.Timeout == "" {
			continue
		}
		duration, err := time.ParseDuration(job.Timeout)
		if err != nil {
			return fmt.Errorf("invalid watch[%d].timeout: %w", i, err)
		}
		job.TimeoutDuration = duration
	}

	return nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// App 默认值
	v.SetDefault("app.name", "amazon-price")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Scheduler 默认值
	v.SetDefault("scheduler.default_timeout", "2m")
	v.SetDefault("scheduler.location", "UTC")

	// Logger 默认值
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)

	// PA-API 默认值
	v.SetDefault("paapi.access_key", "")
	v.SetDefault("paapi.secret_key", "")
	v.SetDefault("paapi.associate_tag", DefaultAssociateTag)
	v.SetDefault("paapi.country", "")
	v.SetDefault("paapi.scheme", "https")
	v.SetDefault("paapi.timeout", "30s")

	// Server 默认值
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
}

// GetDefaultTimeout 获取默认超时时间
func (c *Config) GetDefaultTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scheduler.DefaultTimeout)
}

// GetLocation 获取时区
func (c *Config) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Scheduler.Location)
}
