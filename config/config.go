package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration. It is built once at startup and
// passed by value into constructors; nothing mutates it afterwards.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig
	Memos       MemosConfig
	Auth        AuthConfig
	MCP         MCPConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Host        string
	Port        int
	Mode        string
	CORSOrigins []string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// MemosConfig is the client-side settings bundle for the remote Memos API.
// AccessToken is a secret and must never appear in logs or responses.
type MemosConfig struct {
	BaseURL            string
	APIVersion         string
	AccessToken        string
	Timeout            time.Duration
	MaxRetries         int
	RateLimitPerMinute int
}

type AuthConfig struct {
	TokenAuthEnabled bool
}

type MCPConfig struct {
	Transport string // "http" or "stdio"
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// Environment variables override file values (MEMOS_BASE_URL, SERVER_PORT, ...).
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Host = viper.GetString("server.host")
	cfg.HTTPServer.Port = viper.GetInt("server.port")
	cfg.HTTPServer.Mode = viper.GetString("server.mode")
	cfg.Logger.Level = viper.GetString("log.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Memos API client
	cfg.Memos.BaseURL = strings.TrimRight(viper.GetString("memos.base_url"), "/")
	cfg.Memos.APIVersion = viper.GetString("memos.api_version")
	cfg.Memos.AccessToken = viper.GetString("memos.access_token")
	cfg.Memos.Timeout = time.Duration(viper.GetInt("memos.timeout")) * time.Second
	cfg.Memos.MaxRetries = viper.GetInt("memos.max_retries")
	cfg.Memos.RateLimitPerMinute = viper.GetInt("api.rate_limit")

	// Auth & MCP transport
	cfg.Auth.TokenAuthEnabled = viper.GetBool("enable.token_auth")
	cfg.MCP.Transport = viper.GetString("mcp.transport")

	// CORS origins may arrive as a comma-separated env value
	var origins []string
	if rawOrigins := viper.GetString("cors.origins"); rawOrigins != "" {
		for _, origin := range strings.Split(rawOrigins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	cfg.HTTPServer.CORSOrigins = origins

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	viper.SetDefault("memos.api_version", "v1")
	viper.SetDefault("memos.timeout", 30)
	viper.SetDefault("memos.max_retries", 3)
	viper.SetDefault("api.rate_limit", 100)

	viper.SetDefault("enable.token_auth", true)
	viper.SetDefault("mcp.transport", "http")
}

func (c *Config) validate() error {
	if c.Memos.AccessToken == "" {
		return fmt.Errorf("MEMOS_ACCESS_TOKEN is required: create one in your Memos instance settings")
	}
	if c.Memos.BaseURL == "" {
		return fmt.Errorf("MEMOS_BASE_URL is required: set it to your Memos instance URL (e.g. http://localhost:5230)")
	}
	if !strings.HasPrefix(c.Memos.BaseURL, "http://") && !strings.HasPrefix(c.Memos.BaseURL, "https://") {
		return fmt.Errorf("MEMOS_BASE_URL must be an http(s) URL, got %q", c.Memos.BaseURL)
	}
	if c.Memos.Timeout <= 0 {
		return fmt.Errorf("MEMOS_TIMEOUT must be positive")
	}
	if c.Memos.MaxRetries < 0 {
		return fmt.Errorf("MEMOS_MAX_RETRIES must be non-negative")
	}
	if c.Memos.RateLimitPerMinute <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.MCP.Transport != "http" && c.MCP.Transport != "stdio" {
		return fmt.Errorf("mcp.transport must be http or stdio, got %q", c.MCP.Transport)
	}
	if c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be in 1..65535")
	}
	return nil
}
