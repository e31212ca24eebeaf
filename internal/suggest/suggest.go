// Package suggest 调用 Gemini 生成穿搭建议。
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyAnswer = errors.New("model returned no suggestion")

type Outfit struct {
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

type Generator interface {
	SuggestOutfit(ctx context.Context, wardrobe, occasion string) (*Outfit, error)
}

type GenAI struct {
	client *genai.Client
	model  string
}

func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

func (g *GenAI) SuggestOutfit(ctx context.Context, wardrobe, occasion string) (*Outfit, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(Prompt(wardrobe, occasion)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.7),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("genai generate: %w", err)
	}
	return ParseOutfit(resp.Text())
}

func Prompt(wardrobe, occasion string) string {
	var b strings.Builder
	b.WriteString("You are a personal stylist. Using only the garments listed below, ")
	b.WriteString("suggest one outfit for the occasion and explain why it works.\n\n")
	b.WriteString("Occasion: ")
	b.WriteString(occasion)
	b.WriteString("\n\nWardrobe:\n")
	b.WriteString(wardrobe)
	b.WriteString("\n\nAnswer as JSON: {\"suggestion\": string, \"reasoning\": string}")
	return b.String()
}

// ParseOutfit 兼容模型偶尔包一层 ```json 代码块
func ParseOutfit(text string) (*Outfit, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAnswer
	}
	var o Outfit
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	if strings.TrimSpace(o.Suggestion) == "" {
		return nil, ErrEmptyAnswer
	}
	return &o, nil
}
