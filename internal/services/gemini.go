package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"google.golang.org/genai"

	"alfredoptarigan/interview-ace/internal/models"
)

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL string
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

// NewGeminiService builds a ModelGateway and Embedder backed by the Gemini API.
func NewGeminiService(ctx context.Context, cfg GeminiConfig) (LanguageModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
	}, nil
}

// Send implements ModelGateway. Each turn becomes one content with its role
// and text parts; the reply is the first candidate's first text part.
func (g *geminiService) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, toGeminiContents(transcript), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("❌ Gemini API error %d: %s\n", apiErr.Code, apiErr.Message)
			return "", modelCallFailed(fmt.Sprintf("gemini returned status %d", apiErr.Code), err)
		}
		log.Printf("❌ Gemini transport error: %v\n", err)
		return "", modelCallFailed("gemini request failed", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", modelCallFailed("no valid response from model", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0] == nil {
		return "", modelCallFailed("model candidate has no content", nil)
	}

	return candidate.Content.Parts[0].Text, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbedBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Roughly 10000 tokens, the embedding input limit.
const maxEmbedBytes = 40000

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func toGeminiContents(transcript []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(transcript))
	for _, turn := range transcript {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, text := range turn.Parts {
			parts = append(parts, genai.NewPartFromText(text))
		}

		var role genai.Role = genai.RoleUser
		if turn.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}
