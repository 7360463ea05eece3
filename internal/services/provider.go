package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

type ProviderConfig struct {
	Provider      string
	Gemini        GeminiConfig
	OpenAI        OpenAIConfig
	RetryAttempts int
	RetryDelay    time.Duration
	// RateLimit is calls per second; 0 disables pacing.
	RateLimit float64
	RateBurst int
}

// NewModelProvider builds the configured model backend, wrapped with retry
// and pacing, along with the embedder of the same provider.
func NewModelProvider(ctx context.Context, cfg ProviderConfig) (ModelGateway, Embedder, error) {
	var (
		gateway  ModelGateway
		embedder Embedder
	)

	switch cfg.Provider {
	case "", "gemini":
		gemini, err := NewGeminiService(ctx, cfg.Gemini)
		if err != nil {
			return nil, nil, err
		}
		gateway, embedder = gemini, gemini
	case "openai":
		openAI, err := NewOpenAIService(cfg.OpenAI)
		if err != nil {
			return nil, nil, err
		}
		gateway, embedder = openAI, openAI
	default:
		return nil, nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		gateway = NewRateLimitedGateway(gateway, rate.NewLimiter(rate.Limit(cfg.RateLimit), burst))
	}
	if cfg.RetryAttempts > 1 {
		gateway = NewRetryingGateway(gateway, cfg.RetryAttempts, cfg.RetryDelay)
	}

	return gateway, embedder, nil
}
