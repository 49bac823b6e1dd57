package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Voice != "en-US-AriaNeural" {
			t.Errorf("unexpected voice %q", req.Voice)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mpeg:" + req.Text))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "en-US-AriaNeural", 6000)
	data, err := c.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mpeg:hello world" {
		t.Errorf("unexpected audio payload %q", data)
	}
}

func TestSynthesizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "en-US-AriaNeural", 6000)
	if _, err := c.Synthesize(context.Background(), "hello"); err == nil {
		t.Error("expected error on backend failure")
	}
}

func TestStream(t *testing.T) {
	payload := bytes.Repeat([]byte("abcd"), 3000) // forces multiple chunks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "en-US-AriaNeural", 6000)
	var got bytes.Buffer
	chunks := 0
	err := c.Stream(context.Background(), "a long passage", func(chunk []byte) error {
		chunks++
		got.Write(chunk)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Bytes(), payload) {
		t.Error("streamed bytes differ from payload")
	}
	if chunks < 2 {
		t.Errorf("expected multiple chunks, got %d", chunks)
	}
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 20000))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "en-US-AriaNeural", 6000)
	wantErr := errors.New("client went away")
	calls := 0
	err := c.Stream(context.Background(), "text", func(chunk []byte) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected callback error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected streaming to stop after the failing chunk, got %d calls", calls)
	}
}

func TestStreamCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "en-US-AriaNeural", 6000)
	if err := c.Stream(ctx, "text", func([]byte) error { return nil }); err == nil {
		t.Error("expected error for cancelled context")
	}
}
