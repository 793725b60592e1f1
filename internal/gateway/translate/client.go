// Package translate detects and translates text with the Google Translate v2
// REST API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	DefaultBaseURL = "https://translation.googleapis.com"
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 1 << 20
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("translate: API key not configured")

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client detects and translates text.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

type detectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new translation client.
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

// Canonical reduces a language code such as "es-MX" or "zh_CN" to its base
// language tag. Unparseable codes yield language.Und.
func Canonical(code string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return language.Und
	}
	base, _ := tag.Base()
	out, err := language.Compose(base)
	if err != nil {
		return language.Und
	}
	return out
}

// IsEnglish reports whether tag's base language is English.
func IsEnglish(tag language.Tag) bool {
	base, _ := tag.Base()
	eng, _ := language.English.Base()
	return base == eng
}

// Detect returns the most likely language of text.
func (c *Client) Detect(ctx context.Context, text string) (language.Tag, error) {
	var resp detectResponse
	if err := c.post(ctx, "/language/translate/v2/detect", map[string]any{"q": text}, &resp); err != nil {
		return language.Und, err
	}
	if len(resp.Data.Detections) == 0 || len(resp.Data.Detections[0]) == 0 {
		return language.Und, nil
	}
	return Canonical(resp.Data.Detections[0][0].Language), nil
}

// Translate translates text into target.
func (c *Client) Translate(ctx context.Context, text string, target language.Tag) (string, error) {
	var resp translateResponse
	payload := map[string]any{
		"q":      text,
		"target": target.String(),
		"format": "text",
	}
	if err := c.post(ctx, "/language/translate/v2", payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Data.Translations) == 0 {
		return "", errors.New("translate: no translations returned")
	}
	return html.UnescapeString(resp.Data.Translations[0].TranslatedText), nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("translate: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("translate: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("translate: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("translate: failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("translate: API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("translate: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("translate: failed to decode response: %w", err)
	}
	return nil
}
