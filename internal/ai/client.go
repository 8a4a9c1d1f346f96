// Package ai wraps the external chat-completion API behind a resilient
// client. Generated text is optional everywhere it is used, so every failure
// mode degrades to "absent" rather than an error the caller must handle.
package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 1 * time.Second
	healthTimeout     = 5 * time.Second
)

// Options tune one generate call. Zero values fall back to the defaults.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Client calls a chat-completion endpoint with per-attempt timeouts and
// exponential backoff between attempts.
type Client struct {
	http  *resty.Client
	model string
	log   zerolog.Logger
}

// NewClient creates a client for the given endpoint. The API key may be empty
// for unauthenticated local providers.
func NewClient(baseURL, apiKey, model string, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c, model: model, log: log}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate turns a prompt into text. The second return is false when no text
// could be obtained: a 400/401/403 is terminal and fails immediately, while
// network errors, timeouts and 5xx responses are retried with exponentially
// growing delays (RetryDelay * 2^attempt) up to MaxRetries additional
// attempts. Absence is a normal outcome; callers decide what to do without
// the text.
func (c *Client) Generate(ctx context.Context, prompt, systemInstruction string, opts Options) (string, bool) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	msgs := make([]message, 0, 2)
	if systemInstruction != "" {
		msgs = append(msgs, message{Role: "system", Content: systemInstruction})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})
	body := chatRequest{Model: c.model, Messages: msgs}

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.RetryDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return "", false
			case <-time.After(delay):
			}
		}

		text, terminal, err := c.attempt(ctx, &body, opts.Timeout)
		if err == nil {
			return text, true
		}
		if terminal {
			c.log.Warn().Err(err).Msg("generation request rejected; not retrying")
			return "", false
		}
		c.log.Debug().Err(err).Int("attempt", attempt).Msg("generation attempt failed")
	}
	c.log.Warn().Int("retries", opts.MaxRetries).Msg("generation retries exhausted")
	return "", false
}

type statusError struct{ code int }

func (e *statusError) Error() string { return http.StatusText(e.code) }

func (c *Client) attempt(ctx context.Context, body *chatRequest, timeout time.Duration) (text string, terminal bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(attemptCtx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", false, err
	}

	switch code := resp.StatusCode(); {
	case code >= 200 && code < 300:
		// fall through to decode
	case code == http.StatusBadRequest, code == http.StatusUnauthorized, code == http.StatusForbidden:
		// Retrying cannot fix a malformed or unauthorized request.
		return "", true, &statusError{code: code}
	default:
		return "", false, &statusError{code: code}
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", false, err
	}
	if len(cr.Choices) == 0 {
		return "", false, &statusError{code: http.StatusBadGateway}
	}
	return cr.Choices[0].Message.Content, false, nil
}

// HealthCheck probes the provider with a short timeout. Any error, including
// the timeout, reports unhealthy.
func (c *Client) HealthCheck(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	resp, err := c.http.R().SetContext(probeCtx).Get("/models")
	if err != nil {
		return false
	}
	return resp.StatusCode() < 500
}
