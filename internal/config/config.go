// Package config provides configuration management for folio using Viper
// for loading from files, environment variables, and command-line flags.
//
// Precedence, highest first: flags bound with viper.BindPFlag, FOLIO_*
// environment variables, the config file (.folio.yml), then the defaults
// registered by SetDefaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Site        SiteConfig        `mapstructure:"site" yaml:"site"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
	Build       BuildConfig       `mapstructure:"build" yaml:"build"`
	LogLevel    string            `mapstructure:"log-level" yaml:"log-level"`
	LogFormat   string            `mapstructure:"log-format" yaml:"log-format"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" yaml:"port"`
	Host         string        `mapstructure:"host" yaml:"host"`
	Environment  string        `mapstructure:"environment" yaml:"environment"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

type SiteConfig struct {
	// Content is an optional YAML file overriding the built-in content.
	Content string `mapstructure:"content" yaml:"content"`
	// Assets is the directory static files (images, videos, resume) are served from.
	Assets string `mapstructure:"assets" yaml:"assets"`
}

type DevelopmentConfig struct {
	LiveReload bool          `mapstructure:"live_reload" yaml:"live_reload"`
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type BuildConfig struct {
	Output     string `mapstructure:"output" yaml:"output"`
	CopyAssets bool   `mapstructure:"copy_assets" yaml:"copy_assets"`
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
}

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// EnvPrefix is the prefix of environment overrides such as FOLIO_SERVER_PORT.
const EnvPrefix = "FOLIO"

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// BindEnv enables FOLIO_<SECTION>_<KEY> environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("site.content", "")
	v.SetDefault("site.assets", "./public")
	v.SetDefault("development.live_reload", true)
	v.SetDefault("development.debounce", 300*time.Millisecond)
	v.SetDefault("build.output", "dist")
	v.SetDefault("build.copy_assets", true)
	v.SetDefault("build.base_url", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// IsDevelopment reports whether development features (live reload) apply.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// LiveReloadEnabled reports whether the live reload socket should run.
func (c *Config) LiveReloadEnabled() bool {
	return c.IsDevelopment() && c.Development.LiveReload
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateSiteConfig(&config.Site); err != nil {
		return fmt.Errorf("site config: %w", err)
	}

	if config.Development.Debounce < 0 {
		return fmt.Errorf("development config: debounce must not be negative")
	}

	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// 0 lets the OS pick a port, used by tests.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %q", char)
			}
		}
	}

	switch config.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q (want %s or %s)", config.Environment, EnvDevelopment, EnvProduction)
	}

	if config.ReadTimeout < 0 || config.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	return nil
}

func validateSiteConfig(config *SiteConfig) error {
	if config.Content != "" {
		if err := validatePath(config.Content); err != nil {
			return fmt.Errorf("invalid content path '%s': %w", config.Content, err)
		}
	}
	if err := validatePath(config.Assets); err != nil {
		return fmt.Errorf("invalid assets path '%s': %w", config.Assets, err)
	}
	return nil
}

func validateBuildConfig(config *BuildConfig) error {
	if err := validatePath(config.Output); err != nil {
		return fmt.Errorf("invalid output path '%s': %w", config.Output, err)
	}
	if filepath.Clean(config.Output) == "." {
		return fmt.Errorf("output must not be the working directory")
	}
	if config.BaseURL != "" && !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
