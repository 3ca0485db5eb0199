package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

const explainerSystemPrompt = "You are a fashion shopping assistant. " +
	"In one short sentence, explain why the product suits the customer's stated preferences. " +
	"Mention concrete attributes. Do not invent attributes the product does not have."

// Explainer генерирует короткие объяснения рекомендаций через чат-модель.
type Explainer struct {
	client *openai.Client
	cfg    *cfg.OpenAICfg
	logger logger.Logger
}

func NewExplainer(cfg *cfg.OpenAICfg, logger logger.Logger) *Explainer {
	clientCfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Explainer{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Explain возвращает объяснение, почему товар подходит предпочтениям.
// Вызывающая сторона сама ограничивает конкурентность и таймаут и решает,
// чем заменить объяснение при ошибке.
func (ex *Explainer) Explain(ctx context.Context, pref *domain.Preference, product domain.Product) (string, error) {
	const op = "Explainer.Explain"

	res, err := ex.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     ex.cfg.ChatModel,
		MaxTokens: 80,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: explainerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: explainPrompt(pref, product)},
		},
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if len(res.Choices) == 0 {
		return "", e.Wrap(op, fmt.Errorf("empty completion"))
	}

	explanation := strings.TrimSpace(res.Choices[0].Message.Content)
	if explanation == "" {
		return "", e.Wrap(op, fmt.Errorf("blank completion"))
	}

	return explanation, nil
}

func explainPrompt(pref *domain.Preference, product domain.Product) string {
	var sb strings.Builder

	sb.WriteString("Customer preferences: ")
	prefs := make([]string, 0, 4)
	if pref.SkinTone != "" {
		prefs = append(prefs, "skin tone "+pref.SkinTone)
	}
	if pref.Occasion != "" {
		prefs = append(prefs, "occasion "+pref.Occasion)
	}
	if pref.ProductType != "" {
		prefs = append(prefs, "product type "+pref.ProductType)
	}
	if pref.Description != "" {
		prefs = append(prefs, `"`+pref.Description+`"`)
	}
	if len(prefs) == 0 {
		prefs = append(prefs, "none stated")
	}
	sb.WriteString(strings.Join(prefs, ", "))

	sb.WriteString(". Product: ")
	sb.WriteString(product.Name)
	if product.ProductType != "" {
		sb.WriteString(", type " + product.ProductType)
	}
	if product.Occasion != "" {
		sb.WriteString(", occasion " + product.Occasion)
	}
	if product.SkinTone != "" {
		sb.WriteString(", suits " + product.SkinTone + " skin tone")
	}
	if product.Color != "" {
		sb.WriteString(", color " + product.Color)
	}
	if product.Description != "" {
		sb.WriteString(". " + product.Description)
	}

	return sb.String()
}
