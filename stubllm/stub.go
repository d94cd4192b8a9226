package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"wardrobe-matcher/llm"
)

var _ llm.Client = (*Client)(nil)

// Client is a deterministic, no-network LLM stub intended for CI and local end-to-end tests.
// It returns schema-valid JSON so downstream parsing exercises the full pipeline.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) SourceName() string { return "Stub" }

// Generate answers analysis requests by picking the first "top" and "bottom"
// labels it sees, and anything else with a {"response": ...} object.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Make output deterministic per-input so the pipeline is stable in CI.
	h := sha256.New()
	var texts []string
	for _, p := range req.Parts {
		if p == nil {
			continue
		}
		if p.Text != "" {
			texts = append(texts, p.Text)
			h.Write([]byte(p.Text))
		}
		if p.InlineData != nil {
			h.Write(p.InlineData.Data)
		}
	}
	short := hex.EncodeToString(h.Sum(nil)[:8])

	var out map[string]any
	if req.Schema != nil && req.Schema.Properties["top"] != nil {
		top, bottom := pickIDs(texts)
		out = map[string]any{
			"top":      top,
			"bottom":   bottom,
			"response": fmt.Sprintf("Stub recommendation (%s) for %s", short, lastOf(texts)),
		}
	} else {
		out = map[string]any{
			"response": fmt.Sprintf("Stub reply (%s): %s", short, truncate(strings.Join(texts, " "), 120)),
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// pickIDs scans "Category:<c>,ID:<id>" and "ID:<id>" labels.
func pickIDs(texts []string) (top, bottom string) {
	var first string
	for _, t := range texts {
		category, id, ok := parseLabel(t)
		if !ok {
			continue
		}
		if first == "" {
			first = id
		}
		switch {
		case top == "" && strings.Contains(strings.ToLower(category), "top"):
			top = id
		case bottom == "" && strings.Contains(strings.ToLower(category), "bottom"):
			bottom = id
		}
	}
	if top == "" {
		top = first
	}
	if bottom == "" {
		bottom = first
	}
	return top, bottom
}

func parseLabel(text string) (category, id string, ok bool) {
	if rest, found := strings.CutPrefix(text, "Category:"); found {
		category, id, ok = strings.Cut(rest, ",ID:")
		return category, id, ok
	}
	if id, found := strings.CutPrefix(text, "ID:"); found {
		return "", id, true
	}
	return "", "", false
}

func lastOf(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
