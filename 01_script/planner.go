package script

import (
	"context"
	"fmt"
	"log"
	"strings"

	"shorts-factory/config"
	"shorts-factory/types"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Planner generates narration scripts via the Gemini API
type Planner struct {
	cfg       *config.Config
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// New creates a Planner and picks a working model from the priority list
func New(ctx context.Context, cfg *config.Config, apiKey string) (*Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	name, model := selectModel(ctx, client, cfg.Script.Models, cfg.Script.FallbackModel)
	log.Printf("[script] Using model: %s", name)

	return &Planner{
		cfg:       cfg,
		client:    client,
		model:     model,
		modelName: name,
	}, nil
}

// Close releases the underlying API client
func (p *Planner) Close() error {
	return p.client.Close()
}

// selectModel probes each candidate with a trivial request and returns the
// first one that answers without error. If none do, the fallback model is
// returned unprobed.
func selectModel(ctx context.Context, client *genai.Client, candidates []string, fallback string) (string, *genai.GenerativeModel) {
	for _, name := range candidates {
		model := client.GenerativeModel(name)
		if _, err := model.GenerateContent(ctx, genai.Text("test")); err == nil {
			return name, model
		}
		log.Printf("[script] Model %s unavailable, trying next", name)
	}
	return fallback, client.GenerativeModel(fallback)
}

// Run generates a narration script for the topic sized to the duration
func (p *Planner) Run(ctx context.Context, topic string, durationSec int) (*types.Script, error) {
	log.Printf("[script] Planning a %ds video on: %s", durationSec, topic)

	prompt := buildPrompt(topic, durationSec, WordTarget(durationSec, p.cfg.Script.WordsPerMinute))

	res, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("script generation: %w", err)
	}

	text, err := extractText(res)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("model returned an empty script")
	}

	log.Printf("[script] ✅ Script ready: %d words", len(strings.Fields(text)))
	return &types.Script{Topic: topic, Text: text, Model: p.modelName}, nil
}

// Keyword derives one broad stock-footage search term for the topic.
// Any failure falls back to the raw topic string.
func (p *Planner) Keyword(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf("Give me ONE broad search keyword for a stock video about: '%s'. Output ONLY the word.", topic)

	res, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("[script] Keyword derivation failed: %v — using topic", err)
		return topic
	}
	text, err := extractText(res)
	if err != nil {
		return topic
	}
	return FirstToken(text, topic)
}

// WordTarget converts a duration to an approximate word count at the
// configured speaking rate
func WordTarget(durationSec, wordsPerMinute int) int {
	return durationSec * wordsPerMinute / 60
}

// FirstToken returns the first whitespace-delimited token of s, or fallback
// when s has none
func FirstToken(s, fallback string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fallback
	}
	return fields[0]
}

func buildPrompt(topic string, durationSec, wordCount int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a YouTube Shorts script about '%s'.\n", topic))
	sb.WriteString(fmt.Sprintf("- Target Length: Exactly %d seconds (approx %d words).\n", durationSec, wordCount))
	sb.WriteString("- Format: Raw text only. Do not use **bold** or *italics*. Do not include [Visual Notes].\n")
	sb.WriteString("- Content: Hook in the first sentence. Interesting facts.\n")
	return sb.String()
}

func extractText(res *genai.GenerateContentResponse) (string, error) {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no content")
	}
	if textPart, ok := res.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(textPart), nil
	}
	return "", fmt.Errorf("model response did not contain text")
}
