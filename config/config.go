package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultConfigFile = "config/config.yml"
	DefaultJWTSecret  = "coder_secret"
)

type AppConfig struct {
	ServerName  string          `mapstructure:"server_name" yaml:"server_name"`
	Version     string          `mapstructure:"version" yaml:"version"`
	Environment string          `mapstructure:"environment" yaml:"environment"`
	Port        int             `mapstructure:"port" yaml:"port"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
	Database    DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Postgres    PostgresConfig  `mapstructure:"postgres" yaml:"postgres"`
	Redis       RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Consul      ConsulConfig    `mapstructure:"consul" yaml:"consul"`
	Auth        AuthConfig      `mapstructure:"auth" yaml:"auth"`
	LLM         LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Coder       CoderConfig     `mapstructure:"coder" yaml:"coder"`
	Executor    ExecutorConfig  `mapstructure:"executor" yaml:"executor"`
	Formatter   FormatterConfig `mapstructure:"formatter" yaml:"formatter"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text | json
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver"` // postgres | sqlite
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

type PostgresConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Port     int           `mapstructure:"port" yaml:"port"`
	User     string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	DBName   string        `mapstructure:"db_name" yaml:"db_name"`
	TimeZone string        `mapstructure:"time_zone" yaml:"time_zone"`
	MaxIdle  int           `mapstructure:"max_idle" yaml:"max_idle"`
	MaxOpen  int           `mapstructure:"max_open" yaml:"max_open"`
	MaxLife  time.Duration `mapstructure:"max_life" yaml:"max_life"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	Port         int           `mapstructure:"port" yaml:"port"`
	Password     string        `mapstructure:"password" yaml:"password"`
	Database     int           `mapstructure:"database" yaml:"database"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	RateLimitQPS int           `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
}

type ConsulConfig struct {
	Address    string `mapstructure:"address" yaml:"address"`
	Scheme     string `mapstructure:"scheme" yaml:"scheme"`
	Datacenter string `mapstructure:"datacenter" yaml:"datacenter"`
}

type AuthConfig struct {
	JwtSecret         string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Expire_Access_H   int    `mapstructure:"expire_access_h" yaml:"expire_access_h"`
	Expire_Refresh_H  int    `mapstructure:"expire_refresh_h" yaml:"expire_refresh_h"`
	Expire_Remember_H int    `mapstructure:"expire_remember_h" yaml:"expire_remember_h"`
}

type LLMConfig struct {
	Provider         string        `mapstructure:"provider" yaml:"provider"` // ollama | openai
	BaseURL          string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey           string        `mapstructure:"api_key" yaml:"api_key"`
	Model            string        `mapstructure:"model" yaml:"model"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Temperature      float64       `mapstructure:"temperature" yaml:"temperature"`
	ThinkTemperature float64       `mapstructure:"think_temperature" yaml:"think_temperature"`
	MaxTokens        int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	ContextSize      int           `mapstructure:"context_size" yaml:"context_size"`
	DiscoveryService string        `mapstructure:"discovery_service" yaml:"discovery_service"`
}

type LanguageOption struct {
	Code  string `mapstructure:"code" yaml:"code" json:"code"`
	Label string `mapstructure:"label" yaml:"label" json:"label"`
}

type CoderConfig struct {
	DefaultLanguage string           `mapstructure:"default_language" yaml:"default_language"`
	Languages       []LanguageOption `mapstructure:"languages" yaml:"languages"`
}

type ExecutorConfig struct {
	PythonPath string        `mapstructure:"python_path" yaml:"python_path"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxOutput  int           `mapstructure:"max_output" yaml:"max_output"` // bytes kept per stream
}

type FormatterConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	BlackPath string `mapstructure:"black_path" yaml:"black_path"`
}

func DefaultLanguages() []LanguageOption {
	return []LanguageOption{
		{Code: "python", Label: "Python"},
		{Code: "javascript", Label: "JavaScript"},
		{Code: "typescript", Label: "TypeScript"},
		{Code: "html", Label: "HTML"},
		{Code: "css", Label: "CSS"},
		{Code: "java", Label: "Java"},
		{Code: "cpp", Label: "C++"},
		{Code: "csharp", Label: "C#"},
		{Code: "go", Label: "Go"},
		{Code: "rust", Label: "Rust"},
		{Code: "php", Label: "PHP"},
		{Code: "ruby", Label: "Ruby"},
		{Code: "swift", Label: "Swift"},
		{Code: "kotlin", Label: "Kotlin"},
		{Code: "sql", Label: "SQL"},
		{Code: "bash", Label: "Bash"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_name", "coder-service")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sqlite_path", "coder.db")

	v.SetDefault("postgres.address", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "coder")
	v.SetDefault("postgres.password", "coder-passwd")
	v.SetDefault("postgres.db_name", "coder")
	v.SetDefault("postgres.time_zone", "UTC")
	v.SetDefault("postgres.max_idle", 10)
	v.SetDefault("postgres.max_open", 25)
	v.SetDefault("postgres.max_life", 5*time.Minute)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.rate_limit_qps", 10)

	v.SetDefault("consul.address", "")
	v.SetDefault("consul.scheme", "http")
	v.SetDefault("consul.datacenter", "dc1")

	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.expire_access_h", 24)
	v.SetDefault("auth.expire_refresh_h", 168)
	v.SetDefault("auth.expire_remember_h", 720)

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "deepseek-coder")
	v.SetDefault("llm.timeout", 120*time.Second)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.think_temperature", 0.9)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.context_size", 3)
	v.SetDefault("llm.discovery_service", "")

	v.SetDefault("coder.default_language", "python")
	v.SetDefault("coder.languages", DefaultLanguages())

	v.SetDefault("executor.python_path", "python3")
	v.SetDefault("executor.timeout", 5*time.Second)
	v.SetDefault("executor.max_output", 1<<20)

	v.SetDefault("formatter.enabled", true)
	v.SetDefault("formatter.black_path", "black")
}

// LoadConfig reads path (or DefaultConfigFile when empty) on top of the built-in
// defaults. A missing file is not an error; environment variables such as
// LLM_BASE_URL always win.
func LoadConfig(path string) (*AppConfig, error) {
	var config AppConfig

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(config.Coder.Languages) == 0 {
		config.Coder.Languages = DefaultLanguages()
	}
	return &config, nil
}

// UsesDefaultJWTSecret reports whether a production deployment still signs tokens
// with the built-in secret or with none at all.
func (c *AppConfig) UsesDefaultJWTSecret() bool {
	if !strings.EqualFold(c.Environment, "production") {
		return false
	}
	return c.Auth.JwtSecret == "" || c.Auth.JwtSecret == DefaultJWTSecret
}

// SupportsLanguage reports whether code is one of the configured editor languages.
func (c CoderConfig) SupportsLanguage(code string) bool {
	for _, l := range c.Languages {
		if strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}
