// Package bootstrap assembles the services shared by the API server and the
// interviewctl command from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"alfredoptarigan/interview-ace/internal/config"
	"alfredoptarigan/interview-ace/internal/services"
)

func ModelProvider(ctx context.Context, cfg *config.Config) (services.ModelGateway, services.Embedder, error) {
	gateway, embedder, err := services.NewModelProvider(ctx, services.ProviderConfig{
		Provider: cfg.LLM.Provider,
		Gemini: services.GeminiConfig{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			EmbedModel: cfg.Gemini.EmbedModel,
		},
		OpenAI: services.OpenAIConfig{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			EmbedModel: cfg.OpenAI.EmbedModel,
			Dimensions: int(cfg.Qdrant.EmbeddingDim),
		},
		RetryAttempts: cfg.LLM.RetryAttempts,
		RetryDelay:    cfg.LLM.RetryDelay,
		RateLimit:     cfg.LLM.RateLimit,
		RateBurst:     cfg.LLM.RateBurst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s model: %w", cfg.LLM.Provider, err)
	}
	log.Printf("✅ Model provider %s initialized\n", cfg.LLM.Provider)
	return gateway, embedder, nil
}

// InterviewIndex connects to Qdrant and ensures the collection exists.
// It returns nil without error when QDRANT_URL is unset.
func InterviewIndex(ctx context.Context, cfg *config.Config) (services.InterviewIndex, error) {
	if cfg.Qdrant.URL == "" {
		log.Println("⚠️  QDRANT_URL not set, interview search disabled")
		return nil, nil
	}

	index, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.EmbeddingDim,
	)
	if err != nil {
		return nil, err
	}

	if err := index.InitCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
	}
	log.Println("✅ Qdrant initialized successfully")
	return index, nil
}
