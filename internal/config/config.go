// Package config loads the server configuration from defaults, environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries the server identity and the renderer knobs. Every field
// has a working default; a config file is never required.
type Config struct {
	// Name is the server name reported to clients during the MCP handshake.
	Name string `mapstructure:"name"`

	// LogLevel is a logrus level string: debug, info, warn or error.
	LogLevel string `mapstructure:"logLevel"`

	// MmdcPath is the mermaid-cli binary to invoke. A bare name is
	// resolved on PATH; an absolute path pins a specific install.
	MmdcPath string `mapstructure:"mmdcPath"`

	// RenderTimeout bounds a single mmdc invocation. Zero disables the
	// bound.
	RenderTimeout time.Duration `mapstructure:"renderTimeout"`
}

// Load builds the configuration. Precedence, lowest to highest: built-in
// defaults, the YAML file at path (when given), then environment variables
// prefixed with MERMAID_MCP_ (e.g. MERMAID_MCP_LOGLEVEL=debug).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("name", "mermaid-image-gen")
	v.SetDefault("logLevel", "info")
	v.SetDefault("mmdcPath", "mmdc")
	v.SetDefault("renderTimeout", time.Minute)

	v.SetEnvPrefix("MERMAID_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}
