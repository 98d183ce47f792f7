package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/nuggets/config.yml.
type GlobalConfig struct {
	DataPath            string  `yaml:"data_path,omitempty"`
	EmbeddingProvider   string  `yaml:"embedding_provider,omitempty"` // ollama or openai
	EmbeddingModel      string  `yaml:"embedding_model,omitempty"`
	EmbeddingDimensions int     `yaml:"embedding_dimensions,omitempty"`
	OllamaURL           string  `yaml:"ollama_url,omitempty"`
	OpenAIAPIKey        string  `yaml:"openai_api_key,omitempty"`
	RequestsPerSecond   float64 `yaml:"requests_per_second,omitempty"`
	LogFile             string  `yaml:"log_file,omitempty"`
	LogLevel            string  `yaml:"log_level,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "nuggets"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment variables that override the global config file.
const (
	EnvDataPath          = "NUGGETS_DATA"
	EnvEmbeddingProvider = "NUGGETS_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "NUGGETS_EMBEDDING_MODEL"
	EnvLogLevel          = "NUGGETS_LOG_LEVEL"
	EnvRequestsPerSecond = "NUGGETS_REQUESTS_PER_SECOND"
	EnvOllamaHost        = "OLLAMA_HOST"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/nuggets/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. Returns an empty config (not an error) if the file
// doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := LoadGlobalConfigFrom(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	globalConfigCache = cfg
	return cfg, nil
}

// LoadGlobalConfigFrom reads a config file without environment overrides.
func LoadGlobalConfigFrom(path string) (*GlobalConfig, error) {
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	cfg.DataPath = ExpandPath(cfg.DataPath)
	cfg.LogFile = ExpandPath(cfg.LogFile)
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *GlobalConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataPath); v != "" {
		c.DataPath = ExpandPath(v)
	}
	if v := getenv(EnvEmbeddingProvider); v != "" {
		c.EmbeddingProvider = v
	}
	if v := getenv(EnvEmbeddingModel); v != "" {
		c.EmbeddingModel = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvOllamaHost); v != "" {
		c.OllamaURL = v
	}
	if v := getenv(EnvOpenAIAPIKey); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := getenv(EnvRequestsPerSecond); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
}

// ResolveDataPath picks the data directory: the flag value if given, then
// the configured path, then ./data.
func (c *GlobalConfig) ResolveDataPath(flag string) string {
	if flag != "" {
		return ExpandPath(flag)
	}
	if c.DataPath != "" {
		return c.DataPath
	}
	return DefaultDataDir
}
