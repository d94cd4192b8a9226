package llm

import (
	"context"

	"google.golang.org/genai"
)

// Request is a single structured-output call to the provider.
type Request struct {
	// SystemInstruction frames the model's role; may be empty.
	SystemInstruction string
	// Parts is the ordered user content.
	Parts []*genai.Part
	// Schema is the expected JSON shape of the reply.
	Schema *genai.Schema
}

// Client abstracts an LLM provider used by the analyzer.
// Implementations must be concurrency-safe if used across goroutines.
type Client interface {
	// Generate submits the request and returns the raw text of the first
	// candidate. Provider failures are returned as *apperror.ProviderError.
	Generate(ctx context.Context, req Request) (string, error)
	// SourceName returns a short provider label for logs and metrics (e.g., "Gemini").
	SourceName() string
}
