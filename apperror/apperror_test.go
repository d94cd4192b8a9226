package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidation("wardrobe", "bad"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("upload: %w", NewValidation("wardrobe", "bad")), http.StatusBadRequest},
		{"provider", &ProviderError{Provider: "Gemini", Err: errors.New("boom")}, http.StatusBadGateway},
		{"provider quota", &ProviderError{Provider: "Gemini", Code: http.StatusTooManyRequests, Err: errors.New("quota")}, http.StatusServiceUnavailable},
		{"provider deadline", &ProviderError{Provider: "Gemini", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"parse", NewParse("not json", errors.New("invalid character")), http.StatusBadGateway},
		{"schema", &SchemaViolationError{Problems: []string{"missing field \"top\""}}, http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestKindDistinguishesParseFromProvider(t *testing.T) {
	parseErr := NewParse("not json", errors.New("invalid character 'o'"))
	providerErr := &ProviderError{Provider: "Gemini", Err: errors.New("unauthorized"), Code: 401}

	assert.Equal(t, "parse", Kind(parseErr))
	assert.Equal(t, "provider", Kind(providerErr))
	assert.Equal(t, "schema", Kind(&SchemaViolationError{}))
	assert.Equal(t, "validation", Kind(NewValidation("", "x")))
	assert.Equal(t, "internal", Kind(errors.New("x")))
	assert.Equal(t, "ok", Kind(nil))
}

func TestParseErrorKeepsBoundedExcerpt(t *testing.T) {
	raw := strings.Repeat("a", 500)
	err := NewParse(raw, errors.New("invalid"))

	assert.Len(t, err.Raw, rawExcerptLimit+3)
	assert.True(t, strings.HasSuffix(err.Raw, "..."))
	assert.ErrorContains(t, err, "malformed JSON")
}

func TestParseErrorExcerptKeepsRunesWhole(t *testing.T) {
	raw := "a" + strings.Repeat("é", 300)
	err := NewParse(raw, errors.New("invalid"))

	assert.True(t, utf8.ValidString(err.Raw))
	assert.Len(t, err.Raw, rawExcerptLimit-1+3)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "wardrobe: only image uploads are allowed", NewValidation("wardrobe", "only image uploads are allowed").Error())
	assert.Equal(t, "JSON body required", NewValidation("", "JSON body required").Error())
	assert.Equal(t, "Gemini request failed (status 403): denied",
		(&ProviderError{Provider: "Gemini", Code: 403, Err: errors.New("denied")}).Error())
	assert.Equal(t, "provider response does not match schema: a; b",
		(&SchemaViolationError{Problems: []string{"a", "b"}}).Error())
}
