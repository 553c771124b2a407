package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved configuration, built once at startup and passed to every component.
type Config struct {
	Model         string   `mapstructure:"model"`
	APIKey        string   `mapstructure:"api_key"`
	APIBase       string   `mapstructure:"api_base"`
	Timeout       int      `mapstructure:"timeout"`
	PromptsDir    string   `mapstructure:"prompts_dir"`
	TrunkBranches []string `mapstructure:"trunk_branches"`
}

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultConfigName = "config"
	DefaultConfigDir  = "gitai"
	DefaultConfigType = "yaml"
	DotEnvFile        = ".env"
	EnvPrefix         = "GITAI"
)

// DefaultTrunkBranches are the branches the pr flow refuses to describe.
var DefaultTrunkBranches = []string{"main", "master", "develop"}

var suggestedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"gpt-4.1",
}

// envAliases lets the conventional OpenAI variables stand in for the GITAI_ ones.
var envAliases = map[string][]string{
	"api_key":  {EnvPrefix + "_API_KEY", "OPENAI_API_KEY"},
	"model":    {EnvPrefix + "_MODEL", "OPENAI_MODEL"},
	"api_base": {EnvPrefix + "_API_BASE", "OPENAI_BASE_URL"},
}

var configFilePath string

// InitConfig loads .env, the config file (cfgFile or the XDG default) and the environment into viper.
// A missing config file is not an error.
func InitConfig(cfgFile string) error {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return err
	}

	if cfgFile != "" {
		configFilePath = cfgFile
	} else {
		path, err := defaultConfigPath()
		if err != nil {
			return err
		}
		configFilePath = path
	}

	viper.SetConfigFile(configFilePath)
	viper.SetConfigType(DefaultConfigType)

	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("api_key", "")
	viper.SetDefault("api_base", "")
	viper.SetDefault("timeout", 0)
	viper.SetDefault("prompts_dir", "")
	viper.SetDefault("trunk_branches", DefaultTrunkBranches)

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	for key, names := range envAliases {
		bindArgs := append([]string{key}, names...)
		if err := viper.BindEnv(bindArgs...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	return nil
}

// loadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func defaultConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, DefaultConfigDir, DefaultConfigName+"."+DefaultConfigType), nil
}

// GetConfig unmarshals the current viper state.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if len(cfg.TrunkBranches) == 0 {
		cfg.TrunkBranches = append([]string(nil), DefaultTrunkBranches...)
	}
	return cfg, nil
}

// ConfigFilePath returns the file SaveConfig writes to.
func ConfigFilePath() string {
	if configFilePath != "" {
		return configFilePath
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	path, err := defaultConfigPath()
	if err != nil {
		return ""
	}
	return path
}

func SetConfigValue(key string, value any) {
	viper.Set(key, value)
}

// SaveConfig writes the current settings to ConfigFilePath with owner-only permissions.
func SaveConfig() error {
	path := ConfigFilePath()
	if path == "" {
		return errors.New("no configuration file path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict configuration file permissions: %w", err)
	}
	return nil
}

var knownKeys = []string{"model", "api_key", "api_base", "timeout", "prompts_dir", "trunk_branches"}

// KnownKeys lists the settings `config set` accepts, in display order.
func KnownKeys() []string {
	return append([]string(nil), knownKeys...)
}

func IsKnownKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

func GetSuggestedModels() []string {
	return suggestedModels
}
