// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tips asks a text generation endpoint for a short battle tip. It is
// advisory only: BattleTip never fails, it falls back to a fixed tip.
package tips

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// FallbackTip is returned when the tip could not be generated
	FallbackTip = "Rally Pikmin of the matching color and go for the win!"
	// EmptyTip is returned when the generator answered with nothing
	EmptyTip = "Send out your strongest Pikmin and give it everything!"

	DefaultModel   = "gpt-4.1-mini"
	requestTimeout = 8 * time.Second
	maxBodyBytes   = 1 << 20
)

var errNotConfigured = errors.New("tip generator not configured")

// Client calls an OpenAI style responses endpoint
type Client struct {
	URL        string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(url, apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		URL:        url,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// BattleTip returns a short strategy tip for a mushroom of the given
// category and optional attribute.
func (c *Client) BattleTip(ctx context.Context, category, attribute string) string {
	text, err := c.generate(ctx, prompt(category, attribute))
	if err != nil {
		if !errors.Is(err, errNotConfigured) {
			slog.Warn("tip generation failed", "category", category, "error", err)
		}
		return FallbackTip
	}
	if text == "" {
		return EmptyTip
	}
	return text
}

func prompt(category, attribute string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a Pikmin Bloom expert, give one short battle strategy tip (under 30 words) for a %q mushroom", category)
	if attribute != "" {
		fmt.Fprintf(&b, " with the %q attribute", attribute)
	}
	b.WriteString(".")
	return b.String()
}

// generate returns the trimmed output text. An empty string with a nil error
// means the endpoint answered but produced nothing.
func (c *Client) generate(ctx context.Context, input string) (string, error) {
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return "", errNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"model":        c.Model,
		"instructions": "You are a veteran Pikmin Bloom tactics advisor.",
		"input":        input,
		"temperature":  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal tip request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build tip request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(c.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tip request failed: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read tip response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("tip request status %d: %s", res.StatusCode, strings.TrimSpace(string(payload)))
	}
	if !gjson.ValidBytes(payload) {
		return "", errors.New("tip response is not JSON")
	}

	return outputText(payload), nil
}

// outputText prefers the top level output_text and otherwise takes the
// first non-blank text part of the output items.
func outputText(payload []byte) string {
	if text := strings.TrimSpace(gjson.GetBytes(payload, "output_text").String()); text != "" {
		return text
	}

	var text string
	gjson.GetBytes(payload, "output").ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, part gjson.Result) bool {
			text = strings.TrimSpace(part.Get("text").String())
			return text == ""
		})
		return text == ""
	})
	return text
}
