package core

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uber/lspterm/src/lspterm/internal/fs"
	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

// ConfigModule provides the merged configuration.
var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

const (
	_envConfigDir  = "LSPTERM_CONFIG_DIR"
	_configDirName = "lspterm"
	_configFile    = "config.yaml"

	// EditorKey is the config key for EditorConfig.
	EditorKey = "editor"
	// LSPKey is the config key for LSPConfig.
	LSPKey = "lsp"
	// DebuggerKey is the config key for DebuggerConfig.
	DebuggerKey = "debugger"
	// LoggingKey is the config key for LoggingConfig.
	LoggingKey = "logging"
)

//go:embed base.yaml
var _baseConfig []byte

// Flags are the command line inputs.
type Flags struct {
	ConfigPath string
	LogLevel   string
	Files      []string
}

// EditorConfig holds the editor behavior switches.
type EditorConfig struct {
	Mouse bool `yaml:"mouse"`
}

// ServerConfig describes how to launch a language server.
type ServerConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	Extensions []string `yaml:"extensions"`
}

// LSPConfig holds language server settings.
type LSPConfig struct {
	DisplayMessages bool                    `yaml:"displayMessages"`
	ShutdownTimeout time.Duration           `yaml:"shutdownTimeout"`
	Servers         map[string]ServerConfig `yaml:"servers"`
}

// DebuggerConfig describes the debug adapter launched at startup. An empty command disables it.
type DebuggerConfig struct {
	Command        string                 `yaml:"command"`
	Args           []string               `yaml:"args"`
	Launch         map[string]interface{} `yaml:"launch"`
	RequestTimeout time.Duration          `yaml:"requestTimeout"`
}

// ConfigParams are the dependencies of NewConfig.
type ConfigParams struct {
	fx.In

	Flags Flags
	FS    fs.FS
}

// NewConfig loads the built in defaults overlaid with the user's config file.
func NewConfig(p ConfigParams) (uber_config.Provider, error) {
	path, err := UserConfigPath(p.Flags, p.FS)
	if err != nil {
		return nil, err
	}
	return Load(p.Flags, path, p.FS)
}

// Load builds a provider from the defaults, the file at userPath if it exists, and flag overrides.
func Load(flags Flags, userPath string, fs fs.FS) (uber_config.Provider, error) {
	options := []uber_config.YAMLOption{uber_config.Source(bytes.NewReader(_baseConfig))}

	if userPath != "" {
		exists, err := fs.FileExists(userPath)
		if err != nil {
			return nil, fmt.Errorf("checking config file %q: %w", userPath, err)
		}
		if exists {
			options = append(options, uber_config.File(userPath))
		}
	}

	if flags.LogLevel != "" {
		options = append(options, uber_config.Static(map[string]interface{}{
			LoggingKey: map[string]interface{}{"level": flags.LogLevel},
		}))
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return provider, nil
}

// UserConfigPath returns the path of the user's config file, which may not exist.
func UserConfigPath(flags Flags, fs fs.FS) (string, error) {
	if flags.ConfigPath != "" {
		return filepath.Abs(flags.ConfigPath)
	}

	if configDir := os.Getenv(_envConfigDir); configDir != "" {
		return filepath.Join(configDir, _configFile), nil
	}

	dir, err := fs.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, _configDirName, _configFile), nil
}

// Populate decodes the value at key into a T.
func Populate[T any](provider uber_config.Provider, key string) (T, error) {
	var out T
	if err := provider.Get(key).Populate(&out); err != nil {
		return out, fmt.Errorf("reading %q config: %w", key, err)
	}
	return out, nil
}
