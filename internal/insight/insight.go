package insight

import (
	"context"
	"fmt"

	"github.com/ryosukesatoh/letter-insight/internal/config"
)

// Response is a completed answer. A Response is only produced on success;
// failures are returned as errors carrying an apperr kind, never as a
// half-formed answer.
type Response struct {
	Answer string `json:"answer"`
	Model  string `json:"model"`
}

// Insighter answers a question about a letter's text.
type Insighter interface {
	Insight(ctx context.Context, letterText, question string) (*Response, error)
}

// New creates a new insighter based on the configuration
func New(cfg *config.Config) (Insighter, error) {
	switch cfg.Insight.Type {
	case "anthropic":
		return NewAnthropic(
			cfg.Insight.APIKey,
			cfg.Insight.Model,
			cfg.Insight.MaxTokens,
			cfg.Insight.PromptBudget,
			cfg.Insight.MaxRetries,
		), nil
	default:
		return nil, ErrUnsupportedInsightType
	}
}

// ErrUnsupportedInsightType is returned when an unsupported insight type is specified
var ErrUnsupportedInsightType = fmt.Errorf("unsupported insight type")
