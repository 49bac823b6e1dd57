package models

import "encoding/json"

// ChatMessage is a single role-tagged message sent to the completion service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one conversation turn as submitted by a client. Clients send turns
// in two shapes: {"role": ..., "content": "..."} or {"role": ..., "parts": ["..."]}.
// UnmarshalJSON normalizes both into the canonical Role/Content pair.
type Turn struct {
	Role    string
	Content string
}

// UnmarshalJSON accepts either a content field or a parts list and keeps
// whichever carries text. A turn with neither decodes to empty content.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    string            `json:"role"`
		Content string            `json:"content"`
		Parts   []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Role = raw.Role
	t.Content = raw.Content
	if t.Content == "" && len(raw.Parts) > 0 {
		var part string
		if err := json.Unmarshal(raw.Parts[0], &part); err == nil {
			t.Content = part
		}
	}
	return nil
}

// MarshalJSON writes the canonical shape.
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{t.Role, t.Content})
}

// AnalyzeRequest is the inbound payload for text analysis.
type AnalyzeRequest struct {
	Text       string `json:"text"`
	Mode       string `json:"mode"`
	NativeLang string `json:"native_lang"`
	History    []Turn `json:"history"`
}

// Analysis is the structured result produced by every analysis path:
// the short-circuit fast paths, the completion service, and the fallback.
type Analysis struct {
	Corrected   string   `json:"corrected"`
	Reply       string   `json:"reply"`
	Score       int      `json:"score"`
	Corrections []string `json:"corrections"`
}

// AnalyzeResponse is the wire response for /api/analyze.
type AnalyzeResponse struct {
	ConversationalReply string `json:"conversational_reply"`
	ImprovedVersion     string `json:"improved_version"`
	Score               int    `json:"score"`
	NativeExplanation   string `json:"native_explanation"`
}

// RateLimitResponse is returned with HTTP 429. It carries retry guidance
// plus the full analysis schema so clients need no special-case parsing.
type RateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
	Limit      int    `json:"limit"`
	Window     int    `json:"window"`
	AnalyzeResponse
}

// StartRequest is the inbound payload for starting a practice session.
type StartRequest struct {
	Mode       string `json:"mode"`
	NativeLang string `json:"native_lang"`
}

// SpeakRequest is the inbound payload for speech synthesis.
type SpeakRequest struct {
	Text string `json:"text"`
}
