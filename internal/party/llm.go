package party

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const partyExtractSystemPrompt = `You extract the parties from Kentucky Lis Pendens filings for a lead-generation pipeline.
Given raw filing text, identify the plaintiff (the party bringing the action) and the defendant (the property owner).

You MUST respond with valid JSON only, no markdown, no explanation outside the JSON.

The JSON must have these exact fields:
{
  "plaintiff_name": "<exact plaintiff name as written, or empty string if not determinable>",
  "defendant_name": "<exact defendant name as written, or empty string if not determinable>"
}

Copy names verbatim from the text. Do not invent, expand, or normalize names.`

const partyExtractUserPrompt = `Extract the plaintiff and defendant from the following filing text.

--- BEGIN FILING TEXT ---
%s
--- END FILING TEXT ---

Respond with the JSON only.`

type llmPartiesResponse struct {
	PlaintiffName string `json:"plaintiff_name"`
	DefendantName string `json:"defendant_name"`
}

// AnthropicMessager is the subset of the Anthropic client we use; it exists
// so tests can inject a mock.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &client.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// ExtractParties runs the structural patterns and, when both sides come back
// unknown on a document that plainly has content, falls back to an LLM name
// extraction if ANTHROPIC_API_KEY is configured. The patterns remain the
// default path; the fallback only supplies names, classification always goes
// through the same tables.
func ExtractParties(ctx context.Context, legalText string) (Plaintiff, Defendant) {
	p := ParsePlaintiff(legalText)
	d := ParseDefendant(legalText)
	if p.Name != UnknownPlaintiffName && d.Name != UnknownDefendantName {
		return p, d
	}
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return p, d
	}

	names, err := extractPartiesLLM(ctx, legalText)
	if err != nil {
		log.Printf("LLM party extraction failed, keeping pattern results: %v", err)
		return p, d
	}
	if p.Name == UnknownPlaintiffName {
		if name := strings.TrimSpace(names.PlaintiffName); len(name) >= minNameLen && len(name) <= maxNameLen {
			p.Name = name
			p.Type = classifyPlaintiffType(name)
			p.IsGoodLead = isGoodPlaintiff(name)
		}
	}
	if d.Name == UnknownDefendantName {
		if name := strings.TrimSpace(names.DefendantName); len(name) >= minNameLen && len(name) <= maxNameLen {
			d.Name = name
			d.Type = classifyDefendantType(name)
			d.IsGoodLead = isGoodDefendant(name)
		}
	}
	return p, d
}

func extractPartiesLLM(ctx context.Context, text string) (llmPartiesResponse, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return llmPartiesResponse{}, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	messages := newAnthropicClient(apiKey)

	resp, err := messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens:   1024,
		System:      []anthropic.TextBlockParam{{Text: partyExtractSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(partyExtractUserPrompt, text)))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return llmPartiesResponse{}, fmt.Errorf("claude API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	raw := strings.TrimSpace(sb.String())
	if raw == "" {
		return llmPartiesResponse{}, fmt.Errorf("empty response from Claude API")
	}

	cleaned := stripCodeFences(raw)
	var names llmPartiesResponse
	if err := json.Unmarshal([]byte(cleaned), &names); err != nil {
		return llmPartiesResponse{}, fmt.Errorf("failed to parse Claude response as JSON: %w", err)
	}
	return names, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
