package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusai/internal/model"
)

// SubscriptionRepo 订阅记录仓库
// 每个用户一个文档（_id = userID），merge 式 upsert
type SubscriptionRepo struct {
	collection *mongo.Collection
}

// NewSubscriptionRepo 创建订阅仓库
func NewSubscriptionRepo(db *mongo.Database) *SubscriptionRepo {
	return &SubscriptionRepo{
		collection: db.Collection("subscriptions"),
	}
}

// FindByUserID 查询用户的订阅记录
func (r *SubscriptionRepo) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 写入/更新订阅记录
// 幂等：重复应用同一支付事件得到相同的最终状态
func (r *SubscriptionRepo) Upsert(ctx context.Context, sub *model.Subscription) error {
	sub.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"plan":       sub.Plan,
			"status":     sub.Status,
			"reference":  sub.Reference,
			"amount":     sub.Amount,
			"updated_at": sub.UpdatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": sub.UserID}, update, opts)
	return err
}
