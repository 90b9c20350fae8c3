package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service struct {
		BaseURL      string `mapstructure:"base_url"`
		APIKey       string `mapstructure:"api_key"`
		ResourcePath string `mapstructure:"resource_path"`
	} `mapstructure:"service"`
	Mock struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"mock"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	HTTP struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`
}

// Load reads configuration from the file at path, if path is not empty, and from the
// environment. SERVICE_BASE_URL overrides service.base_url and so on; mock.enabled is also
// read from USE_MOCK or USE_WIREMOCK.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("service.base_url", "https://localhost/rest/v1")
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.resource_path", "/users")
	v.SetDefault("mock.enabled", false)
	v.SetDefault("mock.addr", "127.0.0.1:0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("http.timeout", "10s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("mock.enabled", "MOCK_ENABLED", "USE_MOCK", "USE_WIREMOCK"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings that can also be changed after Load, such as by command-line
// flags.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Service.ResourcePath, "/") {
		return fmt.Errorf("service.resource_path must start with /: %q", c.Service.ResourcePath)
	}
	if !c.Mock.Enabled && c.Service.BaseURL == "" {
		return errors.New("service.base_url required when mock.enabled=false")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must >0")
	}
	return nil
}
