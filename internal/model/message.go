package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 对话消息（一轮中的一条）
// 追加后不可修改、不可重排；CreatedAt 由服务端在写入时赋值，
// 排序键为 (user_id, bot_id, created_at) 升序，_id 作为同毫秒并发写入的决定性次级排序
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role      Role               `bson:"role" json:"role"`
	Content   string             `bson:"content" json:"content"`
	UserID    string             `bson:"user_id" json:"user_id"`
	BotID     string             `bson:"bot_id" json:"bot_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Collection 返回集合名称
func (m *Message) Collection() string {
	return "chats"
}

// EnsureIndexes 创建和维护索引
func (m *Message) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(m.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				bson.E{Key: "user_id", Value: 1},
				bson.E{Key: "bot_id", Value: 1},
				bson.E{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_user_bot_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
