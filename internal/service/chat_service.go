package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/ai"
	"campusai/internal/model"
)

// ErrCompletionFailed AI 回复生成失败
// 与人设合成不同，对话失败必须让用户可见，不做静默降级
var ErrCompletionFailed = errors.New("AI回复生成失败")

// ChatService 对话服务 - 业务逻辑层
// 职责: 解析 Bot 人设 -> 选择模板与安全配置 -> 调用 AI -> 追加消息
type ChatService struct {
	aiClient Completer
	msgStore MessageStore
	resolver *BotResolver
}

// NewChatService 创建对话服务
func NewChatService(aiClient Completer, msgStore MessageStore, resolver *BotResolver) *ChatService {
	return &ChatService{
		aiClient: aiClient,
		msgStore: msgStore,
		resolver: resolver,
	}
}

// SendResult 发送消息结果
type SendResult struct {
	UserMessage      *model.Message
	AssistantMessage *model.Message
}

// Send 发送一条消息并取得 Bot 回复
// 业务流程: 1. 解析 Bot -> 2. 追加用户消息 -> 3. 调用 AI -> 4. 追加回复
// 补全失败时不追加任何回复消息，错误原样暴露；消息持久化失败仅告警，
// 对话在无持久化时退化为无状态问答
func (s *ChatService) Send(ctx context.Context, userID, kind, botID, content string) (*SendResult, error) {
	logger := log.With().Str("user_id", userID).Str("kind", kind).Str("bot_id", botID).Logger()

	// 1. 解析 Bot
	b, err := s.resolver.Resolve(ctx, userID, kind, botID)
	if err != nil {
		return nil, err
	}

	// 2. 追加用户消息
	userMsg := &model.Message{
		Role:    model.RoleUser,
		Content: content,
		UserID:  userID,
		BotID:   b.ID,
	}
	if s.msgStore != nil {
		if err := s.msgStore.Append(ctx, userMsg); err != nil {
			logger.Warn().Err(err).Msg("failed to save user message")
		}
	}

	// 3. 按人设选择模板与安全配置并调用 AI
	prompt, safety := promptFor(b, content)
	reply, err := s.aiClient.Complete(ctx, prompt, safety)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		return nil, errors.Join(ErrCompletionFailed, err)
	}

	// 4. 追加 Bot 回复
	assistantMsg := &model.Message{
		Role:    model.RoleAssistant,
		Content: reply,
		UserID:  userID,
		BotID:   b.ID,
	}
	if s.msgStore != nil {
		if err := s.msgStore.Append(ctx, assistantMsg); err != nil {
			logger.Warn().Err(err).Msg("failed to save assistant message")
		}
	}

	return &SendResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// promptFor 按 Bot 人设选择对话模板
// 内置职业 Bot 附带固定安全配置，其余人设不带；
// 自定义 Bot 一律使用创建时合成的人设文本
func promptFor(b *model.Bot, content string) (string, *ai.SafetyConfig) {
	if b.IsCustom {
		return ai.PersonaChatPrompt(b.Persona, content), nil
	}

	switch b.Kind {
	case model.KindField:
		return ai.FieldPrompt(b.Name, content), nil
	case model.KindProfession:
		return ai.ProfessionPrompt(b.Name, content), ai.ProfessionSafetyConfig()
	case model.KindTopic:
		return ai.TopicPrompt(b.Name, content), nil
	default:
		return ai.GeneralPrompt(content), nil
	}
}

// History 读取一段对话的全部历史，创建时间升序
func (s *ChatService) History(ctx context.Context, userID, kind, botID string) ([]*model.Message, error) {
	b, err := s.resolver.Resolve(ctx, userID, kind, botID)
	if err != nil {
		return nil, err
	}
	return s.msgStore.ListByUserAndBot(ctx, userID, b.ID)
}

// Watch 订阅一段对话的新消息
func (s *ChatService) Watch(ctx context.Context, userID, kind, botID string) (*mongo.ChangeStream, error) {
	b, err := s.resolver.Resolve(ctx, userID, kind, botID)
	if err != nil {
		return nil, err
	}
	return s.msgStore.Watch(ctx, userID, b.ID)
}
