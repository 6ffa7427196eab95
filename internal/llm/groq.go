package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"

	"cryptocast/pkg/prompts"
)

type GroqClient struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
}

func NewGroqClient(apiKey, model string, p *prompts.Prompts) (*GroqClient, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &GroqClient{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
	}, nil
}

func (c *GroqClient) GenerateNarration(ctx context.Context, req NarrationRequest) (string, error) {
	prompt, err := c.prompts.RenderNarration(prompts.NarrationParams{
		Title:     req.Title,
		Style:     req.Style,
		Words:     WordBudget(req.Duration),
		KeyPoints: req.KeyPoints,
		Intro:     req.Intro,
		Outro:     req.Outro,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return c.generate(ctx, c.prompts.System.Narration, prompt)
}

func (c *GroqClient) GenerateCaption(ctx context.Context, title, description string) (string, error) {
	prompt, err := c.prompts.RenderCaption(prompts.CaptionParams{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return c.generate(ctx, c.prompts.System.Caption, prompt)
}

func (c *GroqClient) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty response")
	}

	return content, nil
}
