package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"alfredoptarigan/interview-ace/internal/models"
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	Dimensions int
}

type openAIService struct {
	client     *openai.Client
	model      string
	embedModel string
	dimensions int
}

// NewOpenAIService builds a ModelGateway and Embedder for any
// OpenAI-compatible chat completion endpoint.
func NewOpenAIService(cfg OpenAIConfig) (LanguageModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = string(openai.SmallEmbedding3)
	}

	return &openAIService{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		embedModel: embedModel,
		dimensions: cfg.Dimensions,
	}, nil
}

// Send implements ModelGateway. Model turns map to the assistant role; the
// fragments of a turn are joined into one message.
func (o *openAIService) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, turn := range transcript {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text(),
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("❌ OpenAI API error %d: %s\n", apiErr.HTTPStatusCode, apiErr.Message)
			return "", modelCallFailed(fmt.Sprintf("openai returned status %d", apiErr.HTTPStatusCode), err)
		}
		log.Printf("❌ OpenAI transport error: %v\n", err)
		return "", modelCallFailed("openai request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", modelCallFailed("no valid response from model", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateEmbedding implements Embedder.
func (o *openAIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(o.embedModel),
		Dimensions: o.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return resp.Data[0].Embedding, nil
}
