package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the effective configuration.

Settings come from ~/.config/nuggets/config.yml (or $XDG_CONFIG_HOME),
overridden by environment variables (NUGGETS_DATA, NUGGETS_EMBEDDING_PROVIDER,
NUGGETS_EMBEDDING_MODEL, NUGGETS_LOG_LEVEL, NUGGETS_REQUESTS_PER_SECOND,
OLLAMA_HOST, OPENAI_API_KEY) and a .env file in the working directory.`,
}

// ConfigResponse is the response for config show.
type ConfigResponse struct {
	ConfigFile          string  `json:"config_file"`
	DataPath            string  `json:"data_path"`
	AnalysisPath        string  `json:"analysis_path"`
	IndexPath           string  `json:"index_path"`
	EmbeddingsPath      string  `json:"embeddings_path"`
	EmbeddingProvider   string  `json:"embedding_provider"`
	EmbeddingModel      string  `json:"embedding_model,omitempty"`
	EmbeddingDimensions int     `json:"embedding_dimensions,omitempty"`
	OllamaURL           string  `json:"ollama_url,omitempty"`
	OpenAIAPIKeySet     bool    `json:"openai_api_key_set"`
	RequestsPerSecond   float64 `json:"requests_per_second,omitempty"`
	LogFile             string  `json:"log_file,omitempty"`
	LogLevel            string  `json:"log_level"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func buildConfigResponse(cfg *config.GlobalConfig, root string) ConfigResponse {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = "ollama"
	}
	level := config.ParseLogLevel(cfg.LogLevel)
	return ConfigResponse{
		ConfigFile:          config.GlobalConfigPath(),
		DataPath:            root,
		AnalysisPath:        config.AnalysisPath(root),
		IndexPath:           config.IndexPath(root),
		EmbeddingsPath:      config.EmbeddingsPath(root),
		EmbeddingProvider:   provider,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		OllamaURL:           cfg.OllamaURL,
		OpenAIAPIKeySet:     cfg.OpenAIAPIKey != "",
		RequestsPerSecond:   cfg.RequestsPerSecond,
		LogFile:             cfg.LogFile,
		LogLevel:            level.String(),
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	resp := buildConfigResponse(globalCfg, dataRoot)

	if !humanOutput {
		outputJSON(resp)
		return nil
	}

	fmt.Printf("config file:        %s\n", resp.ConfigFile)
	fmt.Printf("data path:          %s\n", resp.DataPath)
	fmt.Printf("index:              %s\n", resp.IndexPath)
	fmt.Printf("embeddings:         %s\n", resp.EmbeddingsPath)
	fmt.Printf("embedding provider: %s\n", resp.EmbeddingProvider)
	if resp.EmbeddingModel != "" {
		fmt.Printf("embedding model:    %s\n", resp.EmbeddingModel)
	}
	if resp.OllamaURL != "" {
		fmt.Printf("ollama url:         %s\n", resp.OllamaURL)
	}
	fmt.Printf("openai api key:     %v\n", resp.OpenAIAPIKeySet)
	fmt.Printf("log level:          %s\n", resp.LogLevel)
	return nil
}
