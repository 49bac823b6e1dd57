// Package tts is the client adapter for the speech-synthesis backend.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates the complete audio payload for text.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Stream generates audio incrementally, invoking fn for each chunk as
	// it is produced. Synthesis stops when ctx is cancelled or fn returns
	// an error.
	Stream(ctx context.Context, text string, fn func(chunk []byte) error) error
}

// streamChunkSize is the read size used when relaying streamed audio.
const streamChunkSize = 4096

// Client talks to an HTTP speech-synthesis service that accepts
// {text, voice} and returns MPEG audio, either whole or chunked.
type Client struct {
	url        string
	voice      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client for the given backend URL and voice.
// Backend calls are throttled to requestsPerMinute to stay inside the
// synthesis service's quota.
func NewClient(url, voice string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 50
	}
	return &Client{
		url:        url,
		voice:      voice,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize generates the complete audio payload for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.post(ctx, "/synthesize", text)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return data, nil
}

// Stream generates audio incrementally and relays each produced chunk to
// fn. The request carries ctx, so a cancelled context tears down the
// backend call mid-stream.
func (c *Client) Stream(ctx context.Context, text string, fn func(chunk []byte) error) error {
	resp, err := c.post(ctx, "/stream", text)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf := make([]byte, streamChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if fnErr := fn(buf[:n]); fnErr != nil {
				return fnErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read audio stream: %w", err)
		}
	}
}

// post issues one synthesis call. Each invocation waits on the rate
// limiter and runs in its own request scope; nothing is shared across
// calls.
func (c *Client) post(ctx context.Context, path, text string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("synthesis throttle: %w", err)
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: c.voice})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("synthesis service returned %d", resp.StatusCode)
	}
	return resp, nil
}
