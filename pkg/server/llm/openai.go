/* Copyright 2025 Lyricsmith Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package llm

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultBackoff are the waits before each retry of a transient failure
var DefaultBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// OpenAIParams configures an OpenAIClient
type OpenAIParams struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient is a Generator backed by an OpenAI compatible chat
// completion API
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	Backoff []time.Duration
}

// NewOpenAIClient returns a new client
func NewOpenAIClient(p OpenAIParams) *OpenAIClient {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   p.Model,
		timeout: p.Timeout,
		Backoff: DefaultBackoff,
	}
}

// GenerateLyrics is an implementation of Generator.GenerateLyrics.
// Transient failures are retried with the configured backoff.
func (c *OpenAIClient) GenerateLyrics(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= len(c.Backoff); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.Backoff[attempt-1]):
			}

			log.WithFields(log.Fields{
				"attempt": attempt,
				"err":     lastErr,
			}).Warn("Retrying lyrics generation.")
		}

		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if ctx.Err() != nil || !isTransient(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "creating chat completion")
	}

	if len(resp.Choices) == 0 {
		return FallbackLyrics, nil
	}

	return normalize(resp.Choices[0].Message.Content), nil
}

// isTransient reports whether the error is worth retrying: network
// failures, timeouts of a single attempt, rate limits and server errors
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
