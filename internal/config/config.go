package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Newsletter NewsletterConfig
	Log        LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	var newsletter NewsletterConfig
	if err := env.Parse(&newsletter); err != nil {
		return nil, fmt.Errorf("parse newsletter env: %w", err)
	}
	if newsletter.Rate < 0 {
		return nil, fmt.Errorf("invalid NEWSLETTER_RATE value %v: must not be negative", newsletter.Rate)
	}
	if newsletter.Burst < 1 {
		newsletter.Burst = 1
	}

	var logCfg LogConfig
	if err := env.Parse(&logCfg); err != nil {
		return nil, fmt.Errorf("parse log env: %w", err)
	}

	return &Config{Server: server, Backend: backend, Newsletter: newsletter, Log: logCfg}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	return ParseAddr(os.Getenv("PORT"))
}

// ParseAddr 将 PORT 值转换为监听地址。
func ParseAddr(raw string) (ServerConfig, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DefaultBackendURL 是内容后端的默认地址。
const DefaultBackendURL = "https://whatisthe411-backend.onrender.com/api"

// BackendConfig 描述内容后端（CMS）相关配置。
type BackendConfig struct {
	BaseURL     string        `env:"BACKEND_BASE_URL"`
	Timeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	Concurrency int           `env:"FETCH_CONCURRENCY" envDefault:"8"`
}

func loadBackendConfig() (BackendConfig, error) {
	var cfg BackendConfig
	if err := env.Parse(&cfg); err != nil {
		return BackendConfig{}, fmt.Errorf("parse backend env: %w", err)
	}
	return cfg.Validate()
}

// Validate 校验后端地址并补齐默认值，空地址使用 DefaultBackendURL。
func (c BackendConfig) Validate() (BackendConfig, error) {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBackendURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return BackendConfig{}, fmt.Errorf("invalid BACKEND_BASE_URL value %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	return c, nil
}

// NewsletterConfig 描述邮件订阅服务配置。Rate 为 0 表示不限速。
type NewsletterConfig struct {
	URL     string        `env:"NEWSLETTER_URL"`
	Rate    float64       `env:"NEWSLETTER_RATE" envDefault:"1"`
	Burst   int           `env:"NEWSLETTER_BURST" envDefault:"3"`
	Timeout time.Duration `env:"NEWSLETTER_TIMEOUT" envDefault:"10s"`
}

// Enabled 表示是否配置了订阅地址。
func (c NewsletterConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// LogConfig 描述日志配置。
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}
