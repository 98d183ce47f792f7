package main

import (
	"context"
	"errors"

	"github.com/nuggets-cli/nuggets/internal/config"
	"github.com/nuggets-cli/nuggets/internal/embedding"
	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/index"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

// openStore returns the file-backed episode store under the data root.
func openStore() *episode.FileStore {
	return episode.NewFileStore(config.AnalysisPath(dataRoot), logger)
}

// mustLoadIndex loads the saved library index. A missing index loads empty.
func mustLoadIndex() *index.LibraryIndex {
	idx, err := index.Load(config.IndexPath(dataRoot))
	if err != nil {
		exitWithError(ExitConfigError, "loading index: %v\n\nRun 'nug index rebuild' to recreate it.", err)
	}
	return idx
}

// rebuildIndex rebuilds the library index from the store and saves it.
func rebuildIndex(store episode.Store) (*index.LibraryIndex, []episode.ScanWarning) {
	idx, warnings, err := index.NewBuilder(store, logger).Build()
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}
	if err := index.Save(config.IndexPath(dataRoot), idx); err != nil {
		exitWithError(ExitError, "saving index: %v", err)
	}
	return idx, warnings
}

// mustOpenEmbeddings opens the embeddings database.
func mustOpenEmbeddings() *storage.DB {
	db, err := storage.OpenDB(config.EmbeddingsPath(dataRoot))
	if err != nil {
		exitWithError(ExitError, "opening embeddings database: %v", err)
	}
	return db
}

// mustProvider builds the configured embedding provider and, for Ollama,
// checks that the server and model are available.
func mustProvider(ctx context.Context) embedding.Provider {
	provider, err := embedding.New(embedding.Config{
		Provider:          globalCfg.EmbeddingProvider,
		Model:             globalCfg.EmbeddingModel,
		Dimensions:        globalCfg.EmbeddingDimensions,
		OllamaURL:         globalCfg.OllamaURL,
		OpenAIAPIKey:      globalCfg.OpenAIAPIKey,
		RequestsPerSecond: globalCfg.RequestsPerSecond,
	})
	if errors.Is(err, embedding.ErrUnsupportedProvider) || errors.Is(err, embedding.ErrMissingAPIKey) {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err != nil {
		exitWithError(ExitProviderError, "creating embedding provider: %v", err)
	}

	ollama, ok := unwrapOllama(provider)
	if !ok {
		return provider
	}
	if err := ollama.IsAvailable(ctx); err != nil {
		exitWithError(ExitProviderError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
	}
	hasModel, err := ollama.HasModel(ctx)
	if err != nil {
		exitWithError(ExitProviderError, "checking model availability: %v", err)
	}
	if !hasModel {
		exitWithError(ExitModelNotFound, "Embedding model '%s' not found\n\nRun 'ollama pull %s' to download it.", ollama.ModelName(), ollama.ModelName())
	}
	return provider
}

func unwrapOllama(p embedding.Provider) (*embedding.OllamaProvider, bool) {
	if rl, ok := p.(*embedding.RateLimited); ok {
		p = rl.Provider
	}
	ollama, ok := p.(*embedding.OllamaProvider)
	return ollama, ok
}
