package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BotKind Bot 类型（带标签的枚举，每种类型只携带一个与之对应的主题字段）
type BotKind string

const (
	KindGeneral    BotKind = "general"    // 通用知识
	KindField      BotKind = "field"      // 学科领域
	KindProfession BotKind = "profession" // 职业
	KindTopic      BotKind = "topic"      // 主题
)

// IsValid 检查类型是否有效
func (k BotKind) IsValid() bool {
	return k == KindGeneral || k == KindField || k == KindProfession || k == KindTopic
}

// IsCustomizable 检查类型是否允许用户自定义
// general 仅存在于内置表中，自定义 Bot 只能是 field/profession/topic
func (k BotKind) IsCustomizable() bool {
	return k == KindField || k == KindProfession || k == KindTopic
}

// Bot 已解析的 Bot 人设
// 内置 Bot 和自定义 Bot 统一通过该结构参与对话分发；
// 仅持久化领域字段，头像等呈现细节由展示层根据 (Kind, IsCustom) 自行决定
type Bot struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Kind                 BotKind  `json:"type"`
	Persona              string   `json:"persona,omitempty"` // 合成的人设文本，仅自定义 Bot 持有
	IsCustom             bool     `json:"is_custom"`
	ConversationStarters []string `json:"conversation_starters,omitempty"`
}

// CustomBot 自定义 Bot 实体（用户私有）
// OwnerUserID 创建后不可变；ID 全局唯一（UUID）
type CustomBot struct {
	ID                   string    `bson:"_id" json:"id"`
	OwnerUserID          string    `bson:"owner_user_id" json:"owner_user_id"`
	Name                 string    `bson:"name" json:"name"`
	Description          string    `bson:"description" json:"description"`
	Kind                 BotKind   `bson:"kind" json:"type"`
	Persona              string    `bson:"persona" json:"persona"`
	ConversationStarters []string  `bson:"conversation_starters" json:"conversation_starters"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`
}

// ToBot 转换为统一的 Bot 结构
func (b *CustomBot) ToBot() *Bot {
	return &Bot{
		ID:                   b.ID,
		Name:                 b.Name,
		Description:          b.Description,
		Kind:                 b.Kind,
		Persona:              b.Persona,
		IsCustom:             true,
		ConversationStarters: b.ConversationStarters,
	}
}

// Collection 返回集合名称
func (b *CustomBot) Collection() string {
	return "bots"
}

// EnsureIndexes 创建和维护索引
func (b *CustomBot) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(b.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "owner_user_id", Value: 1}, bson.E{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_owner_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
