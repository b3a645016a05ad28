package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/ai"
	"campusai/internal/bot"
	"campusai/internal/model"
	"campusai/internal/pkg/id"
)

var (
	ErrQuotaExceeded  = errors.New("免费套餐的自定义Bot数量已达上限")
	ErrInvalidBotKind = errors.New("不支持的Bot类型")
)

// PlanSource 套餐信息来源（配额判断的唯一依据）
type PlanSource interface {
	Get(ctx context.Context, userID string) (*model.Subscription, error)
}

// BotService 自定义 Bot 服务
// 职责: 配额闸门、人设合成、用户命名空间内的 CRUD
type BotService struct {
	botStore     BotStore
	plans        PlanSource
	aiClient     Completer
	freeBotLimit int
}

// NewBotService 创建自定义 Bot 服务
func NewBotService(botStore BotStore, plans PlanSource, aiClient Completer, freeBotLimit int) *BotService {
	return &BotService{
		botStore:     botStore,
		plans:        plans,
		aiClient:     aiClient,
		freeBotLimit: freeBotLimit,
	}
}

// CreateBotParams 创建自定义 Bot 的参数
type CreateBotParams struct {
	Name        string
	Description string
	Kind        model.BotKind
}

// Create 创建自定义 Bot
// 业务流程: 1. 配额检查 -> 2. 合成人设 -> 3. 生成开场白 -> 4. 落库
// 配额闸门在任何 AI 调用之前执行，拒绝时不产生任何持久化或外部副作用；
// 人设合成失败不阻塞创建，降级为确定性兜底人设
func (s *BotService) Create(ctx context.Context, userID string, params CreateBotParams) (*model.CustomBot, error) {
	if !params.Kind.IsCustomizable() {
		return nil, ErrInvalidBotKind
	}

	// 1. 配额检查（Free 用户限制自定义Bot数量，Pro 不限）
	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	// 2. 合成人设，失败降级为兜底人设
	persona, err := s.aiClient.Complete(ctx, ai.CreatePersonaPrompt(params.Kind, params.Name, params.Description), nil)
	if err != nil || persona == "" {
		log.Warn().Err(err).Str("bot_name", params.Name).Msg("persona generation failed, using fallback persona")
		persona = ai.FallbackPersona(params.Name)
	}

	// 3. 开场白由主题确定性生成，不走模型
	custom := &model.CustomBot{
		ID:                   id.New(),
		OwnerUserID:          userID,
		Name:                 params.Name,
		Description:          params.Description,
		Kind:                 params.Kind,
		Persona:              persona,
		ConversationStarters: defaultStarters(params.Name),
	}

	// 4. 落库
	if err := s.botStore.Insert(ctx, custom); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to insert custom bot")
		return nil, err
	}

	return custom, nil
}

// checkQuota Free 用户的自定义 Bot 数量闸门
// 套餐查询失败按 Free 处理，宁可误拒不可超卖
func (s *BotService) checkQuota(ctx context.Context, userID string) error {
	sub, err := s.plans.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to load subscription, treating as free plan")
		sub = model.DefaultSubscription(userID)
	}
	if sub.IsPaid() {
		return nil
	}

	count, err := s.botStore.CountByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if count >= int64(s.freeBotLimit) {
		return ErrQuotaExceeded
	}
	return nil
}

// defaultStarters 确定性开场白
func defaultStarters(subject string) []string {
	return []string{
		fmt.Sprintf("Let's get started with %s.", subject),
		fmt.Sprintf("Tell me something interesting about %s.", subject),
		fmt.Sprintf("How does %s relate to other fields?", subject),
	}
}

// List 返回用户可见的全部 Bot：内置表 + 用户自己的自定义 Bot
// 自定义部分按创建时间升序排在内置之后
func (s *BotService) List(ctx context.Context, userID string) ([]*model.Bot, error) {
	customs, err := s.botStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	builtins := bot.All()
	bots := make([]*model.Bot, 0, len(builtins)+len(customs))
	bots = append(bots, builtins...)
	for _, c := range customs {
		bots = append(bots, c.ToBot())
	}
	return bots, nil
}

// ListCustom 返回用户的自定义 Bot，创建时间升序
func (s *BotService) ListCustom(ctx context.Context, userID string) ([]*model.CustomBot, error) {
	return s.botStore.ListByOwner(ctx, userID)
}

// Delete 删除用户的自定义 Bot
// 只能删除属于自己的 Bot，跨用户删除与不存在同样返回 ErrBotNotFound
func (s *BotService) Delete(ctx context.Context, userID, botID string) error {
	err := s.botStore.Delete(ctx, userID, botID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrBotNotFound
		}
		return err
	}
	return nil
}

// Watch 订阅用户自定义 Bot 列表的变更
func (s *BotService) Watch(ctx context.Context, userID string) (*mongo.ChangeStream, error) {
	return s.botStore.Watch(ctx, userID)
}
