package enricher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brkicks/importworker/logger"
)

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel  = "openai/gpt-4o-mini"

	requestTimeout = 20 * time.Second
	maxTokens      = 300
	temperature    = 0.1
)

// OpenRouterEnricher asks a chat-completions model to normalize a raw
// album title into structured product fields.
type OpenRouterEnricher struct {
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents the API request structure
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Response represents the API response structure
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// NewOpenRouterEnricher creates a new enricher client
func NewOpenRouterEnricher(apiKey, model string) *OpenRouterEnricher {
	if model == "" {
		model = defaultModel
	}

	return &OpenRouterEnricher{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        logger.ForEnricher(),
	}
}

// Enrich sends the raw title to the model and parses the structured
// reply. It never returns an error: any failure yields nil and the
// caller keeps its deterministic result.
func (e *OpenRouterEnricher) Enrich(ctx context.Context, rawTitle string, priceHint *float64) *Result {
	if e == nil || e.apiKey == "" || strings.TrimSpace(rawTitle) == "" {
		return nil
	}

	content, err := e.complete(ctx, buildPrompt(rawTitle, priceHint))
	if err != nil {
		e.log.Warn().Err(err).Msg("Enrichment request failed")
		return nil
	}

	result, err := parseResult(content)
	if err != nil {
		e.log.Warn().Err(err).Str("content", truncate(content, 200)).Msg("Enrichment reply rejected")
		return nil
	}

	e.log.Debug().Str("title", result.Title).Str("category", result.Category).Msg("Title enriched")
	return result
}

func (e *OpenRouterEnricher) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(&Request{
		Model: e.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return apiResp.Choices[0].Message.Content, nil
}

func buildPrompt(rawTitle string, priceHint *float64) string {
	var sb strings.Builder
	sb.WriteString("You normalize product listings from Chinese reseller photo albums.\n")
	sb.WriteString("Given the raw album title, return ONLY a single JSON object, no prose, no code fences:\n")
	sb.WriteString(`{"title": "clean English product name", "brand": "brand name or empty", "category": "sneakers|clothing|accessories|bags|eyewear|watches|other", "subtype": "short product subtype or empty", "priceYuan": number or null}`)
	sb.WriteString("\n\nRules: drop Chinese characters, supplier codes, batch words (OG, PK, LJR, Top, Batch) and watermarks; keep model and colorway names.\n")
	sb.WriteString("Raw title: ")
	sb.WriteString(rawTitle)
	if priceHint != nil {
		sb.WriteString(fmt.Sprintf("\nPrice seen on page (yuan): %.2f", *priceHint))
	}
	return sb.String()
}

// rawResult mirrors the JSON contract with loose types so that type
// mismatches are detected instead of silently zeroed.
type rawResult struct {
	Title     json.RawMessage `json:"title"`
	Brand     json.RawMessage `json:"brand"`
	Category  json.RawMessage `json:"category"`
	Subtype   json.RawMessage `json:"subtype"`
	PriceYuan json.RawMessage `json:"priceYuan"`
}

// parseResult extracts and validates the JSON object from the model
// reply. The whole reply is rejected on any contract violation.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	result := &Result{}

	title, err := decodeString(raw.Title, "title")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("empty title")
	}
	result.Title = strings.TrimSpace(title)

	if result.Brand, err = decodeString(raw.Brand, "brand"); err != nil {
		return nil, err
	}
	if result.Category, err = decodeString(raw.Category, "category"); err != nil {
		return nil, err
	}
	if result.Subtype, err = decodeString(raw.Subtype, "subtype"); err != nil {
		return nil, err
	}

	if len(raw.PriceYuan) > 0 && string(raw.PriceYuan) != "null" {
		var price float64
		if err := json.Unmarshal(raw.PriceYuan, &price); err != nil {
			return nil, fmt.Errorf("priceYuan is not a number")
		}
		if price > 0 {
			result.PriceYuan = &price
		}
	}

	return result, nil
}

func decodeString(raw json.RawMessage, field string) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s is not a string", field)
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
