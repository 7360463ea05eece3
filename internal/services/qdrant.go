package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// InterviewIndex stores embedded transcript chunks of archived interviews.
type InterviewIndex interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk IndexedChunk, embedding []float32) error
	Search(ctx context.Context, queryEmbedding []float32, userID string, limit int) ([]SearchResult, error)
	DeleteInterview(ctx context.Context, interviewID string) error
}

type IndexedChunk struct {
	InterviewID string
	UserID      string
	Position    int
	Text        string
}

type SearchResult struct {
	InterviewID string
	Score       float32
	Text        string
	Position    int
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize uint64) (InterviewIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}, nil
}

func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertChunk writes one chunk. Point ids derive from interview id and
// position so re-indexing overwrites instead of duplicating.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk IndexedChunk, embedding []float32) error {
	pointID := chunkPointID(chunk.InterviewID, chunk.Position)

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"interview_id": chunk.InterviewID,
			"user_id":      chunk.UserID,
			"position":     int64(chunk.Position),
			"text":         chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search finds the chunks closest to queryEmbedding among userID's interviews.
func (q *qdrantService) Search(ctx context.Context, queryEmbedding []float32, userID string, limit int) ([]SearchResult, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SearchResult
	for _, point := range searchResult {
		payload := point.Payload
		result := SearchResult{Score: point.Score}

		if v, ok := payload["interview_id"]; ok {
			result.InterviewID = v.GetStringValue()
		}
		if v, ok := payload["text"]; ok {
			result.Text = v.GetStringValue()
		}
		if v, ok := payload["position"]; ok {
			result.Position = int(v.GetIntegerValue())
		}

		results = append(results, result)
	}

	return results, nil
}

func (q *qdrantService) DeleteInterview(ctx context.Context, interviewID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("interview_id", interviewID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete interview points: %w", err)
	}

	return nil
}

func chunkPointID(interviewID string, position int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", interviewID, position)))
}
