package aigateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// Client talks to an OpenAI compatible chat completions gateway. Calls are never retried.
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(url, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const productInstruction = `You write catalog metadata for an online store. ` +
	`Reply with a JSON object {"tags": [string], "seoTitle": string, "seoDescription": string}. ` +
	`Use at most 8 short lowercase tags, a title under 60 characters and a description under 160 characters.`

// SuggestProductMeta asks the model for tags and SEO text for a product.
func (c *Client) SuggestProductMeta(ctx context.Context, p *domain.Product) (*domain.ProductSuggestion, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	prompt := fmt.Sprintf("Product: %s\nUnit: %s\nDescription: %s", p.Name, p.Unit, p.Description)
	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: productInstruction},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	var s domain.ProductSuggestion
	if err := json.Unmarshal([]byte(stripFence(content)), &s); err != nil {
		return nil, fmt.Errorf("%w: unreadable model reply: %v", domain.ErrUpstream, err)
	}
	s.Tags = normalizeTags(s.Tags)
	return &s, nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	logger.WithContext(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("[AI] Gateway call")

	if err := statusError(resp.StatusCode, raw); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

// statusError maps gateway status codes onto domain errors.
func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case status == http.StatusPaymentRequired:
		return domain.ErrQuotaExceeded
	case status < 200 || status >= 300:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return fmt.Errorf("%w: gateway status %d: %s", domain.ErrUpstream, status, msg)
	}
	return nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// IsQuotaError reports whether err means the caller should top up or wait.
func IsQuotaError(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrQuotaExceeded)
}
