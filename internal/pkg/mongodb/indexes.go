package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusai/internal/model"
)

// EnsureIndexes 创建所有模型的索引
// 这是一个统一的入口，用于在应用启动时创建所有模型的索引
// 如果模型实现了 Model 接口，会自动调用其 EnsureIndexes 方法
// 对于尚未迁移到新接口的模型，仍然在这里手动创建索引
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	// 使用 Model 接口的模型
	models := []Model{
		&model.CustomBot{},
		&model.Message{},
	}

	if err := EnsureAllIndexes(ctx, db, models...); err != nil {
		return err
	}

	// users 集合索引
	userColl := db.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email_unique").SetUnique(true),
		},
	}
	if err := CreateIndexes(ctx, userColl, userIndexes); err != nil {
		return err
	}

	// refresh_tokens 集合索引
	tokenColl := db.Collection("refresh_tokens")
	tokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_expires_ttl").SetExpireAfterSeconds(0),
		},
	}
	if err := CreateIndexes(ctx, tokenColl, tokenIndexes); err != nil {
		return err
	}

	// subscriptions 集合以 userID 作为 _id，单文档读写，无需额外索引

	return nil
}
