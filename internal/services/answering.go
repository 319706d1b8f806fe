package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lexchat-backend/internal/config"
	"lexchat-backend/internal/models"
)

// ErrNotConfigured is returned when the knowledge base or model id is absent.
// Configuration problems surface per request, never at startup.
var ErrNotConfigured = errors.New("answering service not configured: missing knowledge base or model id")

// answerPromptTemplate instructs the model to ground every answer in the
// retrieved search results only. The $search_results$ and $query$ placeholders
// are expanded by the answering service.
const answerPromptTemplate = `You are a question answering agent. Answer the user's question using only information found in the numbered search results below. Cite the results you used. If the search results do not contain the information needed to answer, say that you could not find an answer in the knowledge base. Do not use any other knowledge.

Search results:
$search_results$

Question:
$query$`

// Fixed generation and retrieval parameters for every request.
const (
	answerTemperature = 0.0
	answerTopP        = 1.0
	answerMaxTokens   = 2048
	retrievedPassages = 5
	answerStopWord    = "\nObservation"
)

// AnsweringService calls the managed retrieve-and-generate API. One outbound
// HTTP call per question, no retries; the context carries the deadline.
type AnsweringService struct {
	baseURL         string
	knowledgeBaseID string
	modelID         string
	client          *http.Client
}

func NewAnsweringService(cfg *config.Config) *AnsweringService {
	return &AnsweringService{
		baseURL:         cfg.AnsweringAPIURL,
		knowledgeBaseID: cfg.KnowledgeBaseID,
		modelID:         cfg.AnswerModelID,
		client:          &http.Client{Timeout: cfg.AnsweringTimeout},
	}
}

// Answer is one successful result from the upstream service.
type Answer struct {
	Text      string
	SessionID string
	Citations []models.Citation
}

type generationConfig struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	MaxTokens     int      `json:"maxTokens"`
	StopSequences []string `json:"stopSequences"`
}

type retrievalConfig struct {
	NumberOfResults int `json:"numberOfResults"`
}

type answerRequest struct {
	Query           string           `json:"query"`
	KnowledgeBaseID string           `json:"knowledgeBaseId"`
	ModelID         string           `json:"modelId"`
	SessionID       string           `json:"sessionId,omitempty"`
	PromptTemplate  string           `json:"promptTemplate"`
	Generation      generationConfig `json:"generation"`
	Retrieval       retrievalConfig  `json:"retrieval"`
	Stream          bool             `json:"stream,omitempty"`
}

type answerResponse struct {
	Answer    string            `json:"answer"`
	SessionID string            `json:"sessionId"`
	Citations []models.Citation `json:"citations"`
	Error     string            `json:"error,omitempty"`
}

// streamChunk is one NDJSON line of a streaming response. Delta frames carry
// text; the final frame has Done set plus session id and citations.
type streamChunk struct {
	Delta     string            `json:"delta,omitempty"`
	Done      bool              `json:"done"`
	SessionID string            `json:"sessionId,omitempty"`
	Citations []models.Citation `json:"citations,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func (s *AnsweringService) buildRequest(question, sessionID string, stream bool) answerRequest {
	return answerRequest{
		Query:           question,
		KnowledgeBaseID: s.knowledgeBaseID,
		ModelID:         s.modelID,
		SessionID:       sessionID,
		PromptTemplate:  answerPromptTemplate,
		Generation: generationConfig{
			Temperature:   answerTemperature,
			TopP:          answerTopP,
			MaxTokens:     answerMaxTokens,
			StopSequences: []string{answerStopWord},
		},
		Retrieval: retrievalConfig{NumberOfResults: retrievedPassages},
		Stream:    stream,
	}
}

func (s *AnsweringService) post(ctx context.Context, reqBody answerRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/retrieve-and-generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("answering service unreachable: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("answering service returned %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

// Ask sends one question and blocks for the full answer. On error the caller
// keeps whatever session id it already had.
func (s *AnsweringService) Ask(ctx context.Context, question, sessionID string) (*Answer, error) {
	if s.knowledgeBaseID == "" || s.modelID == "" {
		return nil, ErrNotConfigured
	}

	resp, err := s.post(ctx, s.buildRequest(question, sessionID, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result answerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode answer: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("answering service error: %s", result.Error)
	}

	return &Answer{
		Text:      result.Answer,
		SessionID: result.SessionID,
		Citations: result.Citations,
	}, nil
}

// AskStream sends one question and invokes fn for every answer delta in
// arrival order. The returned Answer holds the assembled text, the session id
// and citations from the final frame.
func (s *AnsweringService) AskStream(ctx context.Context, question, sessionID string, fn func(delta string) error) (*Answer, error) {
	if s.knowledgeBaseID == "" || s.modelID == "" {
		return nil, ErrNotConfigured
	}

	resp, err := s.post(ctx, s.buildRequest(question, sessionID, true))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	answer := &Answer{}
	decoder := json.NewDecoder(resp.Body)
	for decoder.More() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var chunk streamChunk
		if err := decoder.Decode(&chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode answer stream: %w", err)
		}
		if chunk.Error != "" {
			return nil, fmt.Errorf("answering service error: %s", chunk.Error)
		}
		if chunk.Delta != "" {
			answer.Text += chunk.Delta
			if err := fn(chunk.Delta); err != nil {
				return nil, err
			}
		}
		if chunk.Done {
			answer.SessionID = chunk.SessionID
			answer.Citations = chunk.Citations
			break
		}
	}

	return answer, nil
}
