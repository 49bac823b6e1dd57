// Package completion is the client adapter for the structured text
// generation service (an OpenAI-compatible chat completions API).
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/speakup-ai/speakup/pkg/config"
	"github.com/speakup-ai/speakup/pkg/models"
)

// ErrCompletion is returned when the service fails or keeps producing
// unparseable output after retries.
var ErrCompletion = errors.New("completion failed")

// parseAttempts is the total number of tries when the model returns a
// payload that is not valid JSON. Service-level failures are never retried.
const parseAttempts = 2

// Client calls the completion service with a JSON-object response format.
type Client struct {
	url         string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	log         *log.Logger
}

// New creates a Client from the given configuration.
func New(cfg config.CompletionConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		url:         cfg.URL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  http.DefaultClient,
		log:         logger,
	}
}

type chatRequest struct {
	Model          string               `json:"model"`
	Messages       []models.ChatMessage `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat responseFormat       `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Result is the raw structured payload returned by the model. Score is
// kept in its raw representation until normalized.
type Result struct {
	Corrected   string   `json:"corrected"`
	Reply       string   `json:"reply"`
	Score       RawScore `json:"score"`
	Corrections []string `json:"corrections"`
}

// Complete requests a structured tutoring result for the given messages.
// A malformed payload is retried once with identical input; any other
// failure aborts immediately. Errors wrap ErrCompletion.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (Result, error) {
	var result Result
	if err := c.CompleteObject(ctx, messages, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// CompleteObject requests a JSON object from the model and unmarshals it
// into out, applying the same retry policy as Complete.
func (c *Client) CompleteObject(ctx context.Context, messages []models.ChatMessage, out any) error {
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		content, err := c.chat(ctx, messages)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCompletion, err)
		}
		if err := json.Unmarshal([]byte(content), out); err != nil {
			c.log.Warn("malformed completion payload", "attempt", attempt, "err", err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: unparseable payload after %d attempts", ErrCompletion, parseAttempts)
}

// chat performs one chat-completions call and returns the message content.
func (c *Client) chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response envelope: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Fallback is the degraded result used when the service is unavailable or
// retries are exhausted. Callers treat it as a normal analysis, never as
// an unrecovered error.
func Fallback(text string) models.Analysis {
	return models.Analysis{
		Corrected:   text,
		Reply:       "I'm having trouble processing that thought. Could you rephrase?",
		Score:       0,
		Corrections: []string{},
	}
}
