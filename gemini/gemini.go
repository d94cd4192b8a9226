package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/llm"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	sourceName       = "Gemini"
	responseMIMEType = "application/json"
)

var _ llm.Client = (*Client)(nil)

// Client calls the Gemini generateContent API through the genai SDK
type Client struct {
	model  string
	client *genai.Client
}

// Option configures the underlying genai client.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = hc
	}
}

// NewClient creates a Gemini client for the given key and model.
func NewClient(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{model: model, client: client}, nil
}

func (c *Client) SourceName() string {
	return sourceName
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.model
}

// Generate sends the parts as a single user turn and returns the text of the
// first candidate.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   req.Schema,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromParts(req.Parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", c.wrap(err)
	}
	return c.firstText(resp)
}

func (c *Client) firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", c.wrap(errors.New("no candidates in response"))
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", c.wrap(fmt.Errorf("candidate has no content (finish reason %q)", candidate.FinishReason))
	}
	for _, p := range candidate.Content.Parts {
		if p != nil && !p.Thought && p.Text != "" {
			return p.Text, nil
		}
	}
	return "", c.wrap(errors.New("no text part in response"))
}

func (c *Client) wrap(err error) error {
	pe := &apperror.ProviderError{Provider: sourceName, Err: err}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.Code
	}
	return pe
}
