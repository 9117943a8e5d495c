// Package extract implements the three unreliable-input adapters (SMS
// text, receipt image, statement file) on top of the Gemini API. Each
// adapter sends a strict-JSON prompt, cleans the model output and maps it
// into a transaction candidate.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds every inference call. A slow model surfaces
	// as a failure instead of a submission that hangs forever.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the Gemini client with the model name and call timeout
// shared by all three adapters.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates the shared Gemini client. Credentials come from the
// environment (GEMINI_API_KEY or application default credentials).
func NewClient(ctx context.Context, model string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{genai: gc, model: model, timeout: timeout, log: log}, nil
}

// generate sends one user turn to the model and returns the raw text
// response. The configured timeout applies per call.
func (c *Client) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	c.log.Debug().Dur("duration", time.Since(start)).Str("model", c.model).Msg("model call finished")

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return raw, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk the model
// sometimes emits despite being told not to, keeping only the outermost
// JSON value.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON object or array if junk remains.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	switch {
	case arrStart != -1 && (objStart == -1 || arrStart < objStart):
		if end := strings.LastIndex(s, "]"); end > arrStart {
			s = s[arrStart : end+1]
		}
	case objStart != -1:
		if end := strings.LastIndex(s, "}"); end > objStart {
			s = s[objStart : end+1]
		}
	}

	return strings.TrimSpace(s)
}
