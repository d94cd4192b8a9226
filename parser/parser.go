package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/models"
)

var (
	analysisFields = []string{"top", "bottom", "response"}
	promptFields   = []string{"response"}
)

// ParseAnalysis parses the provider text into an AnalysisResult.
// Malformed JSON is a ParseError; well-formed JSON with the wrong shape is a
// SchemaViolationError.
func ParseAnalysis(raw string) (*models.AnalysisResult, error) {
	fields, err := decodeStringObject(raw, analysisFields)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisResult{
		Top:      fields["top"],
		Bottom:   fields["bottom"],
		Response: fields["response"],
	}, nil
}

// ParsePromptReply parses the provider text for a passthrough prompt
func ParsePromptReply(raw string) (*models.PromptResult, error) {
	fields, err := decodeStringObject(raw, promptFields)
	if err != nil {
		return nil, err
	}
	return &models.PromptResult{Response: fields["response"]}, nil
}

// decodeStringObject requires raw to be a JSON object holding exactly the
// given keys, each with a string value.
func decodeStringObject(raw string, required []string) (map[string]string, error) {
	cleaned := strings.TrimSpace(raw)

	var doc any
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&doc); err != nil {
		return nil, apperror.NewParse(raw, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, apperror.NewParse(raw, fmt.Errorf("unexpected data after top-level value"))
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &apperror.SchemaViolationError{
			Problems: []string{fmt.Sprintf("expected a JSON object, got %s", jsonKind(doc))},
		}
	}

	var problems []string
	out := make(map[string]string, len(required))
	allowed := make(map[string]bool, len(required))
	for _, key := range required {
		allowed[key] = true
		v, present := obj[key]
		if !present {
			problems = append(problems, fmt.Sprintf("missing field %q", key))
			continue
		}
		s, isString := v.(string)
		if !isString {
			problems = append(problems, fmt.Sprintf("field %q must be a string, got %s", key, jsonKind(v)))
			continue
		}
		out[key] = s
	}

	var extra []string
	for key := range obj {
		if !allowed[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		problems = append(problems, fmt.Sprintf("unexpected field %q", key))
	}

	if len(problems) > 0 {
		return nil, &apperror.SchemaViolationError{Problems: problems}
	}
	return out, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
