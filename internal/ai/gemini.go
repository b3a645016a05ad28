package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"campusai/internal/config"
)

// geminiProvider 基于 Google GenAI SDK 的补全提供方
// 唯一支持按伤害类别透传安全配置的 Provider
type geminiProvider struct {
	client *genai.Client
	model  string
	cfg    *config.AIConfig
}

func newGeminiProvider(ctx context.Context, cfg *config.AIConfig) (*geminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	return &geminiProvider{
		client: client,
		model:  modelName,
		cfg:    cfg,
	}, nil
}

func (p *geminiProvider) complete(ctx context.Context, prompt string, safety *SafetyConfig) (string, error) {
	genCfg := &genai.GenerateContentConfig{}

	if p.cfg.Options.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(p.cfg.Options.Temperature))
	}
	if p.cfg.Options.TopP > 0 {
		genCfg.TopP = genai.Ptr(float32(p.cfg.Options.TopP))
	}
	if p.cfg.Options.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(p.cfg.Options.MaxTokens)
	}

	// 安全配置按原文透传：类别和阈值字符串即上游协议字符串
	if safety != nil {
		settings := make([]*genai.SafetySetting, 0, len(safety.Settings))
		for _, s := range safety.Settings {
			settings = append(settings, &genai.SafetySetting{
				Category:  genai.HarmCategory(s.Category),
				Threshold: genai.HarmBlockThreshold(s.Threshold),
			})
		}
		genCfg.SafetySettings = settings
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
