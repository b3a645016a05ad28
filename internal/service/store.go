package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/ai"
	"campusai/internal/model"
)

// BotStore 自定义 Bot 的持久化抽象
type BotStore interface {
	Insert(ctx context.Context, bot *model.CustomBot) error
	FindByID(ctx context.Context, ownerUserID, botID string) (*model.CustomBot, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]*model.CustomBot, error)
	CountByOwner(ctx context.Context, ownerUserID string) (int64, error)
	Delete(ctx context.Context, ownerUserID, botID string) error
	Watch(ctx context.Context, ownerUserID string) (*mongo.ChangeStream, error)
}

// MessageStore 对话消息的持久化抽象
type MessageStore interface {
	Append(ctx context.Context, msg *model.Message) error
	ListByUserAndBot(ctx context.Context, userID, botID string) ([]*model.Message, error)
	Watch(ctx context.Context, userID, botID string) (*mongo.ChangeStream, error)
}

// SubscriptionStore 订阅记录的持久化抽象
type SubscriptionStore interface {
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	Upsert(ctx context.Context, sub *model.Subscription) error
}

// Completer AI 补全能力抽象
type Completer interface {
	Complete(ctx context.Context, prompt string, safety *ai.SafetyConfig) (string, error)
}

// SubscriptionCache 订阅缓存抽象（Redis 不可用时可为 nil）
type SubscriptionCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
