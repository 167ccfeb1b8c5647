package aipipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/infrastructure/resilience"
)

// Client talks to an OpenAI-compatible chat-completions endpoint
// (aipipe.org/openrouter in production).
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Classifier wraps the client with the categorization call, masking
// transient failures behind the retry executor.
type Classifier struct {
	client   *Client
	executor *resilience.Executor
}

func NewClassifier(client *Client, executor *resilience.Executor) *Classifier {
	return &Classifier{client: client, executor: executor}
}

func (c *Classifier) Classify(ctx context.Context, req domain.ClassificationRequest) (domain.Classification, error) {
	prompt := buildCategorizationPrompt(req)

	var result domain.Classification
	call := func(callCtx context.Context) error {
		respText, err := c.client.complete(callCtx, prompt)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
			return fmt.Errorf("parse classification json: %w: %w", errMalformedResponse, err)
		}
		return nil
	}

	err := c.execute(ctx, "aipipe.classify", call)
	if err != nil {
		return domain.Classification{}, wrapTemporaryIfNeeded("classify keyword", err)
	}
	return result, nil
}

// ContentWriter wraps the client with the four artifact-generation calls.
type ContentWriter struct {
	client   *Client
	executor *resilience.Executor
}

func NewContentWriter(client *Client, executor *resilience.Executor) *ContentWriter {
	return &ContentWriter{client: client, executor: executor}
}

func (w *ContentWriter) Generate(ctx context.Context, ct domain.ContentType, entry domain.Entry) (domain.Artifact, error) {
	prompt, err := buildContentPrompt(ct, entry)
	if err != nil {
		return domain.Artifact{}, err
	}

	var fields map[string]any
	call := func(callCtx context.Context) error {
		respText, err := w.client.complete(callCtx, prompt)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(extractJSONObject(respText)), &fields); err != nil {
			return fmt.Errorf("parse %s json: %w: %w", ct, errMalformedResponse, err)
		}
		return nil
	}

	operation := "aipipe.generate." + string(ct)
	execErr := w.execute(ctx, operation, call)
	if execErr != nil {
		return domain.Artifact{}, wrapTemporaryIfNeeded(operation, execErr)
	}
	return domain.Artifact{Fields: fields}, nil
}

func (c *Classifier) execute(ctx context.Context, operation string, call func(context.Context) error) error {
	if c.executor == nil {
		return call(ctx)
	}
	return c.executor.Execute(ctx, operation, call, classifyAPIError)
}

func (w *ContentWriter) execute(ctx context.Context, operation string, call func(context.Context) error) error {
	if w.executor == nil {
		return call(ctx)
	}
	return w.executor.Execute(ctx, operation, call, classifyAPIError)
}

// complete performs one chat-completions request and returns the message
// content, trying the fallback body shapes the service is known to emit.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Text    string `json:"text"`
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, payload, &response, "complete"); err != nil {
		return "", err
	}

	text := ""
	if len(response.Choices) > 0 {
		text = response.Choices[0].Message.Content
	}
	if text == "" {
		text = response.Text
	}
	if text == "" {
		text = response.Message
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty completion body: %w", errMalformedResponse)
	}
	return text, nil
}

var errMalformedResponse = errors.New("malformed model response")

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
