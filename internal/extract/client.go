package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultModel   = "gpt-4o"
	defaultTimeout = 120 * time.Second
	maxAttempts    = 3
	retryBaseDelay = 2 * time.Second
)

// Config holds settings for the OpenAI-compatible extraction client.
type Config struct {
	Model      string        // chat model to use (default gpt-4o)
	BaseURL    string        // optional, for compatible gateways and tests
	Timeout    time.Duration // HTTP timeout per attempt
	HTTPClient *http.Client  // optional (tests)
	Logger     *slog.Logger
}

// Client calls an OpenAI-compatible vision model to extract a schedule from
// a document. The credential is supplied per call: it belongs to the user,
// not the process.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an extraction client.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Extract validates the document, sends it to the model with the versioned
// extraction prompt, and returns the schema-validated raw payload for the
// import pipeline.
func (c *Client) Extract(ctx context.Context, doc Document, credential string) (json.RawMessage, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrMissingCredential
	}

	mediaType, err := SniffMediaType(doc)
	if err != nil {
		return nil, err
	}
	if mediaType == MediaTypePDF {
		if err := validatePDF(doc.Data); err != nil {
			return nil, err
		}
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(extractionPrompt),
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(doc.Data))
	if mediaType == MediaTypePDF {
		filename := doc.Filename
		if filename == "" {
			filename = "schedule.pdf"
		}
		parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String(filename),
		}))
	} else {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(credential),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0), // retry policy is ours, not the SDK's
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	c.logger.Info("requesting schedule extraction",
		"model", c.model,
		"mediaType", mediaType,
		"promptVersion", PromptVersion,
		"bytes", len(doc.Data))

	var content string
	err = retry.Do(
		func() error {
			resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(c.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(parts),
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("no choices in response")
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(retryBaseDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("extraction attempt failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}

	payload, err := parsePayload(content)
	if err != nil {
		return nil, err
	}
	c.logger.Info("extraction payload validated", "bytes", len(payload))
	return payload, nil
}
