package stubllm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"wardrobe-matcher/llm"
	"wardrobe-matcher/models"
	"wardrobe-matcher/parser"
	"wardrobe-matcher/payload"
)

func TestGenerate_AnalysisIsSchemaValid(t *testing.T) {
	images := []models.UploadedImage{
		{Filename: "top_4.jpg", MimeType: "image/jpeg", Data: []byte("a")},
		{Filename: "bottom_9.jpg", MimeType: "image/jpeg", Data: []byte("b")},
	}
	p, err := payload.NewAssembler(payload.PolicyCategory).Assemble(images, models.RequestConfig{Event: "wedding"})
	require.NoError(t, err)

	raw, err := NewClient().Generate(context.Background(), llm.Request{Parts: p.Parts, Schema: p.Schema})
	require.NoError(t, err)

	result, err := parser.ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "4", result.Top)
	assert.Equal(t, "9", result.Bottom)
	assert.Contains(t, result.Response, "Event:wedding")
}

func TestGenerate_IsDeterministic(t *testing.T) {
	req := llm.Request{Parts: []*genai.Part{genai.NewPartFromText("hello")}, Schema: payload.PromptSchema()}

	a, err := NewClient().Generate(context.Background(), req)
	require.NoError(t, err)
	b, err := NewClient().Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	reply, err := parser.ParsePromptReply(a)
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "hello")
}

func TestGenerate_VerbatimLabelsFallBackToFirstID(t *testing.T) {
	req := llm.Request{
		Parts: []*genai.Part{
			genai.NewPartFromText("ID:shirt.jpg"),
			genai.NewPartFromText("Style:none,Event:none,Weather:none"),
		},
		Schema: payload.AnalysisSchema(),
	}

	raw, err := NewClient().Generate(context.Background(), req)
	require.NoError(t, err)

	result, err := parser.ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "shirt.jpg", result.Top)
	assert.Equal(t, "shirt.jpg", result.Bottom)
}

func TestGenerate_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Generate(ctx, llm.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
