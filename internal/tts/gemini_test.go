// ABOUTME: Tests for the Gemini speech client
// ABOUTME: Uses httptest to check request shape, audio extraction and retries
package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Gemini {
	return NewGemini(Config{
		APIKey:     "test-key",
		BaseURL:    url,
		RetryCount: 2,
		RetryDelay: time.Millisecond,
	})
}

func TestSynthesizeRequestAndAudio(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1beta/models/"+DefaultModel+":generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if key := r.Header.Get("x-goog-api-key"); key != "test-key" {
			t.Errorf("api key header = %q", key)
		}
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;rate=24000","data":"AAB/AAB/"}}]}}]}`))
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if payload != "AAB/AAB/" {
		t.Errorf("payload = %q, want AAB/AAB/", payload)
	}

	gc := got.GenerationConfig
	if gc == nil || len(gc.ResponseModalities) != 1 || gc.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("generationConfig = %+v, want AUDIO modality", gc)
	}
	if v := gc.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; v != DefaultVoice {
		t.Errorf("voice = %q, want %q", v, DefaultVoice)
	}
	if text := got.Contents[0].Parts[0].Text; !strings.Contains(text, "hello") {
		t.Errorf("prompt %q does not contain the text", text)
	}
}

func TestSynthesizeNoAudio(t *testing.T) {
	responses := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`,
	}

	for _, body := range responses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		payload, err := newTestClient(server.URL).Synthesize(context.Background(), "hi")
		server.Close()

		if err != nil {
			t.Errorf("body %s: unexpected error %v", body, err)
		}
		if payload != "" {
			t.Errorf("body %s: payload = %q, want empty", body, payload)
		}
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"AQI="}}]}}]}`))
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Synthesize(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if payload != "AQI=" {
		t.Errorf("payload = %q", payload)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Synthesize(context.Background(), "hi")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Code != "INVALID_ARGUMENT" || apiErr.Retry {
		t.Errorf("error = %+v", apiErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"text", `{"candidates":[{"content":{"parts":[{"text":"Big luck "},{"text":"ahead!"}]}}]}`, "Big luck ahead!"},
		{"empty", `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Path, DefaultTextModel) {
					t.Errorf("path = %s, want text model", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := NewGemini(Config{BaseURL: server.URL, FallbackText: "fallback"})
			got, err := g.Summarize(context.Background(), "poem")
			if err != nil {
				t.Fatalf("Summarize() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
