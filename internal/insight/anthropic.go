package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
	"github.com/ryosukesatoh/letter-insight/internal/retry"
)

// Anthropic answers questions through the Anthropic Messages API. It holds
// no mutable state beyond the http.Client, so it is safe to call from
// concurrent request handlers.
type Anthropic struct {
	apiKey       string
	model        string
	maxTokens    int
	promptBudget int
	maxRetries   int
	baseURL      string
	client       *http.Client
}

func NewAnthropic(apiKey, model string, maxTokens, promptBudget, maxRetries int) *Anthropic {
	return &Anthropic{
		apiKey:       apiKey,
		model:        model,
		maxTokens:    maxTokens,
		promptBudget: promptBudget,
		maxRetries:   maxRetries,
		baseURL:      "https://api.anthropic.com/v1/messages",
		client:       &http.Client{Timeout: 120 * time.Second},
	}
}

// Anthropic API request/response types

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (a *Anthropic) Insight(ctx context.Context, letterText, question string) (*Response, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperr.NewInvalidRequest("question must not be empty")
	}
	if strings.TrimSpace(letterText) == "" {
		return nil, apperr.NewUpstreamParseFailure("letter has no text to analyze")
	}

	prompt := buildPrompt(letterText, question, a.promptBudget)

	var answer string
	call := func(ctx context.Context) error {
		var err error
		answer, err = a.callAPI(ctx, prompt)
		return err
	}

	var err error
	if a.maxRetries > 0 {
		cfg := retry.Config{MaxRetries: a.maxRetries, BaseDelay: 500 * time.Millisecond}
		err = retry.WithBackoff(ctx, cfg, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &Response{Answer: answer, Model: a.model}, nil
}

func (a *Anthropic) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", apperr.NewInferenceUnavailable("inference endpoint unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.NewInferenceUnavailable("failed to read inference response", err)
	}

	if kindErr := errorFromStatus(resp.StatusCode, respBody); kindErr != nil {
		return "", kindErr
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", apperr.NewInferenceUnavailable("malformed inference response", err)
	}

	if apiResp.Error != nil {
		return "", errorFromAPIType(apiResp.Error)
	}

	if len(apiResp.Content) == 0 || strings.TrimSpace(apiResp.Content[0].Text) == "" {
		return "", apperr.NewInferenceUnavailable("empty inference response", nil)
	}

	return apiResp.Content[0].Text, nil
}

// errorFromStatus maps HTTP status codes from the Messages API to error
// kinds. Bodies are parsed for the API's message when present.
func errorFromStatus(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}

	msg := apiErrorMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.NewInferenceAuthFailure(msg)
	case status == http.StatusTooManyRequests:
		return apperr.NewInferenceThrottled(msg)
	default:
		return apperr.NewInferenceUnavailable(msg, fmt.Errorf("unexpected status %d", status))
	}
}

// errorFromAPIType maps the API's structured error types. Some deployments
// return 200 with an error object, so status mapping alone is not enough.
func errorFromAPIType(apiErr *anthropicError) error {
	msg := fmt.Sprintf("%s: %s", apiErr.Type, apiErr.Message)
	switch apiErr.Type {
	case "authentication_error", "permission_error":
		return apperr.NewInferenceAuthFailure(msg)
	case "rate_limit_error":
		return apperr.NewInferenceThrottled(msg)
	default:
		return apperr.NewInferenceUnavailable(msg, nil)
	}
}

func apiErrorMessage(body []byte) string {
	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error != nil {
		return fmt.Sprintf("%s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	return "inference endpoint error"
}
