package models

import "strings"

// NoneValue is sent for any request config field the caller left out.
const NoneValue = "none"

// UploadedImage is a single wardrobe photo received with a request
type UploadedImage struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// RequestConfig holds the optional matching parameters sent with the images
type RequestConfig struct {
	Style   string `json:"style" form:"style"`
	Event   string `json:"event" form:"event"`
	Weather string `json:"weather" form:"weather"`
}

// WithDefaults returns a copy where every blank field is replaced by NoneValue
func (rc RequestConfig) WithDefaults() RequestConfig {
	return RequestConfig{
		Style:   orNone(rc.Style),
		Event:   orNone(rc.Event),
		Weather: orNone(rc.Weather),
	}
}

func orNone(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NoneValue
	}
	return v
}

// AnalysisResult is the recommendation returned by the provider
type AnalysisResult struct {
	Top      string `json:"top"`
	Bottom   string `json:"bottom"`
	Response string `json:"response"`
}

// PromptResult is the answer to a free-form passthrough prompt
type PromptResult struct {
	Response string `json:"response"`
}

// PromptRequest is the JSON body accepted by the passthrough endpoint
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// Envelope is the response body shape shared by every endpoint
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
