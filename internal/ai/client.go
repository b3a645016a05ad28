package ai

import (
	"context"
	"fmt"

	"campusai/internal/config"
)

// provider 单次补全调用的提供方抽象
// safety 可为 nil；不支持安全配置的提供方忽略并记录
type provider interface {
	complete(ctx context.Context, prompt string, safety *SafetyConfig) (string, error)
}

// Client AI 能力层客户端
// 职责: 封装所有补全能力，按配置选择 Provider，提供统一接口
type Client struct {
	cfg      *config.AIConfig
	provider provider
}

// NewClient 创建 AI 客户端
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	var (
		p   provider
		err error
	)

	switch cfg.Provider {
	case "gemini", "":
		p, err = newGeminiProvider(ctx, cfg)
	case "openai", "azure", "ark":
		p, err = newEinoProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
	}

	return &Client{
		cfg:      cfg,
		provider: p,
	}, nil
}

// Complete 执行一次补全调用
// prompt 进，补全文本出；任何上游失败原样返回给调用方，由调用方决定降级策略
func (c *Client) Complete(ctx context.Context, prompt string, safety *SafetyConfig) (string, error) {
	return c.provider.complete(ctx, prompt, safety)
}

// Close 关闭客户端
func (c *Client) Close() error {
	// 当前各 Provider 均无需清理资源
	return nil
}
