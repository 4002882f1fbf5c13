package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"google.golang.org/genai"
)

const overviewPrompt = `You are summarizing the transcript of a long-form talk titled "%s".
Write a concise overview of 3 to 6 sentences in the same language as the transcript.
Name the main topics in the order they appear. Do not use headings or bullet points.

Transcript:
---
%s
---`

type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type geminiOverviewer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	generate   generateFunc
	logger     logger.Logger
}

// NewGemini creates an Overviewer that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, log logger.Logger) Overviewer {
	return &geminiOverviewer{
		apiKeys:  apiKeys,
		model:    model,
		generate: generateContent,
		logger:   log,
	}
}

// Overview sends the transcript to Gemini. Rotates API keys on 429 / quota errors.
func (g *geminiOverviewer) Overview(ctx context.Context, title, text string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", errors.New("no Gemini API keys configured")
	}
	prompt := fmt.Sprintf(overviewPrompt, title, text)

	var lastErr error
	for range len(g.apiKeys) {
		idx, key := g.key()

		out, err := g.generate(ctx, key, g.model, prompt)
		if err == nil {
			return strings.TrimSpace(out), nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		g.rotateKey()
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiOverviewer) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

func (g *geminiOverviewer) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateContent(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			return text, nil
		}
	}

	return "", fmt.Errorf("empty response from Gemini")
}
