package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"alfredoptarigan/interview-ace/internal/models"
)

// ModelGateway sends a full transcript to a language model and returns the
// reply text. Failures are reported as *ModelCallError.
type ModelGateway interface {
	Send(ctx context.Context, transcript []models.Turn) (string, error)
}

// Embedder turns text into a vector for the interview index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// LanguageModel is a provider that can both converse and embed.
type LanguageModel interface {
	ModelGateway
	Embedder
}

type retryingGateway struct {
	inner       ModelGateway
	maxAttempts int
	delay       time.Duration
}

// NewRetryingGateway retries ModelCallFailed outcomes up to maxAttempts
// times in total, doubling delay between attempts.
func NewRetryingGateway(inner ModelGateway, maxAttempts int, delay time.Duration) ModelGateway {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryingGateway{inner: inner, maxAttempts: maxAttempts, delay: delay}
}

func (g *retryingGateway) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	var lastErr error
	wait := g.delay

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		reply, err := g.inner.Send(ctx, transcript)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if attempt == g.maxAttempts {
			break
		}

		log.Printf("⚠️ Model call attempt %d failed: %v. Retrying...\n", attempt, err)

		select {
		case <-ctx.Done():
			return "", modelCallFailed("context cancelled", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}

	if g.maxAttempts == 1 {
		return "", lastErr
	}
	return "", modelCallFailed(fmt.Sprintf("failed after %d attempts", g.maxAttempts), lastErr)
}

type rateLimitedGateway struct {
	inner   ModelGateway
	limiter *rate.Limiter
}

// NewRateLimitedGateway waits on limiter before every model call.
func NewRateLimitedGateway(inner ModelGateway, limiter *rate.Limiter) ModelGateway {
	return &rateLimitedGateway{inner: inner, limiter: limiter}
}

func (g *rateLimitedGateway) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", modelCallFailed("rate limit wait aborted", err)
	}
	return g.inner.Send(ctx, transcript)
}
