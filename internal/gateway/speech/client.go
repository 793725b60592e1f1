// Package speech transcribes audio with the Google Speech-to-Text REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://speech.googleapis.com"
	DefaultTimeout      = 30 * time.Second
	DefaultLanguageCode = "en-US"

	maxResponseBytes = 1 << 20
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("speech: API key not configured")
	// ErrUnintelligible means the service returned no transcript.
	ErrUnintelligible = errors.New("Could not understand audio")
)

// RecognitionError reports a failed call to the recognition service.
type RecognitionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RecognitionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("Speech recognition error: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("Speech recognition error: %d %s", e.StatusCode, e.Message)
	default:
		return "Speech recognition error: " + e.Message
	}
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client transcribes audio payloads.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	LanguageCode string `json:"languageCode"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new speech client.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	return c
}

// Transcribe returns the best transcript for audio spoken in languageCode.
// Multiple result segments are joined with a space.
func (c *Client) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(recognizeRequest{
		Config: recognitionConfig{LanguageCode: languageCode},
		Audio:  recognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	})
	if err != nil {
		return "", fmt.Errorf("speech: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech:recognize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("speech: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &RecognitionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &RecognitionError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &RecognitionError{StatusCode: resp.StatusCode, Message: msg}
	}

	var recResp recognizeResponse
	if err := json.Unmarshal(respBody, &recResp); err != nil {
		return "", &RecognitionError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	var segments []string
	for _, result := range recResp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(result.Alternatives[0].Transcript); t != "" {
			segments = append(segments, t)
		}
	}
	if len(segments) == 0 {
		return "", ErrUnintelligible
	}
	return strings.Join(segments, " "), nil
}
