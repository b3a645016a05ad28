package ai

import (
	"context"
	"errors"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"campusai/internal/ai/component"
	"campusai/internal/config"
)

// einoProvider 基于 Eino ChatModel 的补全提供方 (openai/azure/ark)
type einoProvider struct {
	chatModel einomodel.BaseChatModel
}

func newEinoProvider(ctx context.Context, cfg *config.AIConfig) (*einoProvider, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &einoProvider{chatModel: chatModel}, nil
}

func (p *einoProvider) complete(ctx context.Context, prompt string, safety *SafetyConfig) (string, error) {
	if safety != nil {
		// OpenAI 兼容接口没有伤害类别维度的安全配置，无法透传
		log.Debug().Msg("safety config not supported by provider, ignoring")
	}

	msg, err := p.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if msg == nil || msg.Content == "" {
		return "", errors.New("empty completion")
	}
	return msg.Content, nil
}
