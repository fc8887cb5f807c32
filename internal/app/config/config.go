package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/modules/mdpolicy"
)

// Config 应用配置
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Lmstfy LmstfyConfig `mapstructure:"lmstfy"`
	Policy PolicyConfig `mapstructure:"policy"`
	Commit CommitConfig `mapstructure:"commit"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Namespace string `mapstructure:"namespace"`
	Queue     string `mapstructure:"queue"`
	Token     string `mapstructure:"token"`
}

// PolicyConfig 审批策略配置（按阈值升序）
type PolicyConfig struct {
	Limits []PolicyLimitConfig `mapstructure:"limits"`
}

type PolicyLimitConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Level     string  `mapstructure:"level"`
}

// CommitConfig 落库配置
type CommitConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	// 兼容性处理：如果 server.port 为空，使用默认值
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Commit.TimeoutSeconds <= 0 {
		cfg.Commit.TimeoutSeconds = 5
	}
	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Lmstfy.Token == "" {
		return fmt.Errorf("lmstfy token is required")
	}
	if len(c.Policy.Limits) == 0 {
		return fmt.Errorf("policy limits are required")
	}
	return nil
}

// PolicyLimits 转换为策略引擎输入
func (c *Config) PolicyLimits() []mdpolicy.PolicyLimit {
	limits := make([]mdpolicy.PolicyLimit, 0, len(c.Policy.Limits))
	for _, l := range c.Policy.Limits {
		limits = append(limits, mdpolicy.PolicyLimit{
			Threshold: l.Threshold,
			Level:     l.Level,
		})
	}
	return limits
}

// CommitTimeout 落库超时
func (c *Config) CommitTimeout() time.Duration {
	return time.Duration(c.Commit.TimeoutSeconds) * time.Second
}

// GetServerPort 获取服务端口
func (c *Config) GetServerPort() string {
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return "8080"
}
