package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusai/internal/model"
)

// BotRepo 自定义 Bot 仓库
// 所有查询都以 owner_user_id 限定命名空间，调用方无法跨用户读写
type BotRepo struct {
	collection *mongo.Collection
}

// NewBotRepo 创建自定义 Bot 仓库
func NewBotRepo(db *mongo.Database) *BotRepo {
	return &BotRepo{
		collection: db.Collection("bots"),
	}
}

// Insert 写入自定义 Bot
// created_at 由服务端在写入时赋值，不接受调用方传入的时间
func (r *BotRepo) Insert(ctx context.Context, bot *model.CustomBot) error {
	bot.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, bot)
	return err
}

// FindByID 在用户命名空间内查询单个 Bot
func (r *BotRepo) FindByID(ctx context.Context, ownerUserID, botID string) (*model.CustomBot, error) {
	var bot model.CustomBot
	err := r.collection.FindOne(ctx, bson.M{
		"_id":           botID,
		"owner_user_id": ownerUserID,
	}).Decode(&bot)
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

// ListByOwner 查询用户的全部自定义 Bot，按创建时间升序
func (r *BotRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]*model.CustomBot, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: 1}, bson.E{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"owner_user_id": ownerUserID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bots []*model.CustomBot
	if err := cursor.All(ctx, &bots); err != nil {
		return nil, err
	}

	return bots, nil
}

// CountByOwner 统计用户的自定义 Bot 数量（配额判断用）
func (r *BotRepo) CountByOwner(ctx context.Context, ownerUserID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"owner_user_id": ownerUserID})
}

// Delete 在用户命名空间内删除 Bot
// 未匹配到文档时返回 mongo.ErrNoDocuments，便于上层区分 NotFound
func (r *BotRepo) Delete(ctx context.Context, ownerUserID, botID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":           botID,
		"owner_user_id": ownerUserID,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Watch 订阅用户 Bot 集合的变更（实时视图的数据源）
// 删除事件没有 fullDocument，放行所有 delete 由上层重读列表兜底
func (r *BotRepo) Watch(ctx context.Context, ownerUserID string) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{bson.E{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"fullDocument.owner_user_id": ownerUserID},
				bson.M{"operationType": "delete"},
			},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return r.collection.Watch(ctx, pipeline, opts)
}
