package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/bot"
	"campusai/internal/model"
)

// ErrBotNotFound Bot 不存在（内置表未命中，或自定义 Bot 不属于当前用户）
var ErrBotNotFound = errors.New("Bot不存在")

// KindCustom 自定义 Bot 的路由类型值
// 自定义 Bot 不进内置表，按 (userID, botID) 去用户命名空间查
const KindCustom = "custom"

// BotResolver 将路由标识 (kind, id) 解析为统一的 Bot 人设
// 解析是对话分发的第一步：先确定人设，再选模板和安全配置
type BotResolver struct {
	botStore BotStore
}

// NewBotResolver 创建 Bot 解析器
func NewBotResolver(botStore BotStore) *BotResolver {
	return &BotResolver{botStore: botStore}
}

// Resolve 解析 Bot
// kind 为空时回落到默认通用知识 Bot；custom 类型按用户命名空间查库，
// 其余类型查只读内置表。未命中一律返回 ErrBotNotFound
func (r *BotResolver) Resolve(ctx context.Context, userID, kind, botID string) (*model.Bot, error) {
	if kind == "" {
		return bot.General(), nil
	}

	if kind == KindCustom {
		if r.botStore == nil {
			return nil, ErrBotNotFound
		}
		custom, err := r.botStore.FindByID(ctx, userID, botID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrBotNotFound
			}
			return nil, err
		}
		return custom.ToBot(), nil
	}

	k := model.BotKind(kind)
	if !k.IsValid() {
		return nil, ErrBotNotFound
	}
	if k == model.KindGeneral && botID == "" {
		return bot.General(), nil
	}

	b, ok := bot.Lookup(k, botID)
	if !ok {
		return nil, ErrBotNotFound
	}
	return b, nil
}
