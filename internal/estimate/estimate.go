// Package estimate asks an OpenAI chat model how many minutes an activity takes.
package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Common errors for duration estimation
var (
	ErrMissingAPIKey   = errors.New("openai api key is not configured")
	ErrEmptyResponse   = errors.New("empty chat response")
	ErrInvalidEstimate = errors.New("invalid duration estimate")
)

const systemPrompt = `You are provided with a sample database containing activities and their respective durations in minutes. For example, "Having lunch, 20". Your task is to estimate the duration in minutes for any given entry that is not listed in the sample database and output the result in a JSON file. Avoid any discussion, suggestions, or comments

Input Example:
"Having lunch"

Output Example:
{ "duration": 20 }

Sample database
Grocery: 25 minutes
Parking: 15 minutes
Cooking: 12 minutes
Meal: 12 minutes
Clean: 10 minutes
Breakfast: 10 minutes
Lunch: 10 minutes
Dinner: 10 minutes
Shower: 20 minutes
Shaving: 15 minutes
Get dressed: 15 minutes`

// Config holds the estimator configuration
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration without an API key
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      openai.GPT4o,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Client estimates activity durations with a chat completion model
type Client struct {
	client  *openai.Client
	config  Config
	logger  zerolog.Logger
	backoff func(attempt int) time.Duration
}

// NewClient creates an estimator client
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		logger: logger.With().Str("component", "estimate").Logger(),
		backoff: func(attempt int) time.Duration {
			return time.Duration(math.Pow(2, float64(attempt))) * time.Second
		},
	}, nil
}

type estimateResponse struct {
	Duration *float64 `json:"duration"`
}

// Estimate returns the estimated number of minutes for activity
func (c *Client) Estimate(ctx context.Context, activity string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var minutes int
	err := c.doWithRetry(ctx, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, c.request(activity))
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return ErrEmptyResponse
		}
		minutes, err = parseEstimate(resp.Choices[0].Message.Content)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate '%s': %w", activity, err)
	}

	c.logger.Debug().Str("activity", activity).Int("minutes", minutes).Msg("duration estimated")
	return minutes, nil
}

func (c *Client) request(activity string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Cleaning the kitchen"},
			{Role: openai.ChatMessageRoleAssistant, Content: "```json\n{\n  \"duration\": 10\n}\n```"},
			{Role: openai.ChatMessageRoleUser, Content: activity},
		},
		Temperature: 1,
		MaxTokens:   256,
		TopP:        1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

// parseEstimate reads {"duration": N} from content, tolerating a fenced code block
func parseEstimate(content string) (int, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var resp estimateResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}
	if resp.Duration == nil {
		return 0, fmt.Errorf("%w: missing duration", ErrInvalidEstimate)
	}
	if *resp.Duration < 0 {
		return 0, fmt.Errorf("%w: negative duration", ErrInvalidEstimate)
	}
	return int(math.Round(*resp.Duration)), nil
}

// doWithRetry executes fn with exponential backoff. Invalid estimates are not retried.
func (c *Client) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrInvalidEstimate) || attempt == c.config.MaxRetries-1 {
			break
		}

		wait := c.backoff(attempt)
		c.logger.Debug().Int("attempt", attempt+1).Dur("wait_time", wait).Err(err).Msg("estimate request failed, retrying")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
