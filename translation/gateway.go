// Package translation wraps the external text-generation backend behind a
// narrow request/response contract. Prompt design and response cleanup are
// policy and stay isolated here.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"babel-relay/domain"

	"github.com/abadojack/whatlanggo"
)

const defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// systemPrompt pins the backend to mechanically faithful translation:
// meaning, slang level, tone, formatting and misspellings are preserved,
// and the output is the translation only, with no commentary.
const systemPrompt = `You are a strict translation engine for a chat application.
Your only job is to translate text to the target language without changing the meaning, style, tone, slang level, intention, or emotional intensity of the message in any way.
- Never normalize slang: translate slang to slang of similar intensity, not formal equivalents.
- Preserve misspellings, abbreviations, stretched letters, emojis, punctuation, casing, line breaks, and chaotic writing style.
- Do NOT fix grammar, expand shorthand, interpret intention, or make the message sound more natural.
- Output ONLY the translation. No explanations, no reasoning, no alternative interpretations, no comments.`

const detectPrompt = `ONLY respond with a 2-letter language code. Nothing else. No explanation, no text, just the code like "en" or "ru".`

// Config configures the chat-completions backend and HTTP behavior.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// Gateway drives an OpenAI-compatible chat-completions backend.
// Stateless per call and safe for concurrent use.
type Gateway struct {
	cfg Config
	log *slog.Logger
}

func NewGateway(cfg Config, log *slog.Logger) *Gateway {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Gateway{cfg: cfg, log: log}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate renders text into the target language, feeding the recent context
// window so slang and tone stay consistent across the conversation.
// The returned string may be empty after sanitization; that is a valid success.
func (g *Gateway) Translate(ctx context.Context, text, target string, contextWindow []domain.HistoryEntry) (string, error) {
	var contextBlock strings.Builder
	for _, entry := range contextWindow {
		handle := entry.Handle
		if handle == "" {
			handle = "User"
		}
		fmt.Fprintf(&contextBlock, "[%s]: %s\n", handle, entry.Content)
	}

	userPrompt := fmt.Sprintf("Previous chat context:\n%s\nTranslate ONLY to %s:\n%s",
		contextBlock.String(), languageName(target), text)

	raw, err := g.complete(ctx, chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
		MaxTokens:   500,
		TopP:        0.8,
	})
	if err != nil {
		return "", err
	}
	return sanitize(raw), nil
}

var reNonLetter = regexp.MustCompile(`[^a-z]`)

// DetectLanguage returns a two-letter tag for the text. A confident local
// detection avoids a backend round-trip; otherwise the backend is asked.
// Callers default to "en" on error.
func (g *Gateway) DetectLanguage(ctx context.Context, text string) (string, error) {
	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		if tag := info.Lang.Iso6391(); tag != "" {
			return tag, nil
		}
	}

	raw, err := g.complete(ctx, chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: detectPrompt},
			{Role: "user", Content: fmt.Sprintf("Detect language (respond ONLY with 2-letter code):\n%s", text)},
		},
		Temperature: 0.1,
		MaxTokens:   3,
	})
	if err != nil {
		return "", err
	}

	tag := reNonLetter.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
	if len(tag) > 2 {
		tag = tag[:2]
	}
	if tag == "" {
		return "", wrap(fmt.Errorf("backend returned no language code"))
	}
	return tag, nil
}

// complete performs one chat-completions round-trip and extracts the first
// choice. Every failure mode maps to *Error.
func (g *Gateway) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", wrap(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", wrap(fmt.Errorf("malformed response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", wrap(fmt.Errorf("response contains no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}
