package payload

import "google.golang.org/genai"

// WardrobeInstruction is the system instruction sent with every analysis call.
const WardrobeInstruction = "You are a wardrobe matcher/analyzer picking the best combinations based on given parameters. " +
	"Style, Event and Weather, each field optional. " +
	"Suggest the best combination by the ID supplied in the prompt, answering with the top id, the bottom id and a short reason with your confidence level."

// PromptInstruction is the system instruction for free-form prompts.
const PromptInstruction = "Answer the user's prompt. Put the whole answer in the response field as plain text."

// AnalysisSchema describes the recommendation object the provider must return.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"top": {
				Type:        genai.TypeString,
				Description: "The best from all top id",
			},
			"bottom": {
				Type:        genai.TypeString,
				Description: "The best from all bottom id",
			},
			"response": {
				Type:        genai.TypeString,
				Description: "Short description on reason and confidence level",
			},
		},
		Required:         []string{"top", "bottom", "response"},
		PropertyOrdering: []string{"top", "bottom", "response"},
	}
}

// PromptSchema describes the reply object for free-form prompts.
func PromptSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response": {
				Type:        genai.TypeString,
				Description: "The answer to the prompt",
			},
		},
		Required: []string{"response"},
	}
}
