// ABOUTME: Gemini text and speech generation client
// ABOUTME: Calls the generateContent REST endpoint for spoken summaries as base64 PCM
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	providerName = "gemini"

	DefaultBaseURL   = "https://generativelanguage.googleapis.com"
	DefaultModel     = "gemini-2.5-flash-preview-tts"
	DefaultTextModel = "gemini-3-flash-preview"
	DefaultVoice     = "Puck"

	// SampleRate and Channels describe the PCM returned by the speech model
	SampleRate = 24000
	Channels   = 1
)

// Config configures the Gemini client
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	TextModel string
	Voice     string

	// SummaryPrompt is a format string with one %s for the source text
	SummaryPrompt string
	// SpeechPrompt is a format string with one %s for the text to read
	SpeechPrompt string
	// FallbackText is spoken when the summary comes back empty
	FallbackText string

	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
}

// Gemini is a client for Gemini speech generation
type Gemini struct {
	config     Config
	httpClient *http.Client
}

// NewGemini creates a new Gemini client
func NewGemini(config Config) *Gemini {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.TextModel == "" {
		config.TextModel = DefaultTextModel
	}
	if config.Voice == "" {
		config.Voice = DefaultVoice
	}
	if config.SummaryPrompt == "" {
		config.SummaryPrompt = "Summarize the following into a lively spoken script of about 150 words, suitable for reading aloud:\n%s"
	}
	if config.SpeechPrompt == "" {
		config.SpeechPrompt = "Read this aloud with energy and a brisk pace: %s"
	}
	if config.FallbackText == "" {
		config.FallbackText = "Listen up! The master says: relax a little."
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RetryCount == 0 {
		config.RetryCount = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}

	return &Gemini{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Synthesize speaks text and returns the base64 PCM payload (24kHz mono
// 16-bit little-endian). An empty string with a nil error means the model
// returned no audio.
func (g *Gemini) Synthesize(ctx context.Context, text string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(g.config.SpeechPrompt, text)}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: g.config.Voice},
				},
			},
		},
	}

	resp, err := g.generate(ctx, g.config.Model, req)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	first := resp.Candidates[0].Content.Parts[0]
	if first.InlineData == nil {
		return "", nil
	}
	return first.InlineData.Data, nil
}

// Summarize condenses text into a short script for narration. An empty
// model answer yields the configured fallback text.
func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(g.config.SummaryPrompt, text)}}}},
	}

	resp, err := g.generate(ctx, g.config.TextModel, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		log.Printf("TTS: empty summary, using fallback text")
		return g.config.FallbackText, nil
	}
	return summary, nil
}

// generate calls generateContent with linear backoff on retryable failures
func (g *Gemini) generate(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	var resp *generateResponse
	var err error

	for attempt := 0; attempt <= g.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.config.RetryDelay * time.Duration(attempt)):
			}
		}

		resp, err = g.makeRequest(ctx, model, body)
		if err == nil {
			return resp, nil
		}

		if apiErr, ok := err.(*Error); ok && !apiErr.Retry {
			return nil, err
		}
		log.Printf("TTS: attempt %d failed: %v", attempt+1, err)
	}

	return nil, fmt.Errorf("failed after %d retries: %w", g.config.RetryCount, err)
}

func (g *Gemini) makeRequest(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Provider: providerName, Code: "marshal_error", Message: err.Error()}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(g.config.BaseURL, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &Error{Provider: providerName, Code: "request_error", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	httpResp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Provider: providerName, Code: "network_error", Message: err.Error(), Retry: ctx.Err() == nil}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Provider: providerName, Code: "read_error", Message: err.Error(), Retry: true}
	}

	if httpResp.StatusCode != http.StatusOK {
		retry := httpResp.StatusCode >= 500 || httpResp.StatusCode == http.StatusTooManyRequests

		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, &Error{Provider: providerName, Code: errResp.Error.Status, Message: errResp.Error.Message, Retry: retry}
		}
		return nil, &Error{Provider: providerName, Code: fmt.Sprintf("http_%d", httpResp.StatusCode), Message: string(respBody), Retry: retry}
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &Error{Provider: providerName, Code: "decode_error", Message: err.Error()}
	}
	return &resp, nil
}
