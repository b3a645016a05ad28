package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusai/internal/model"
)

// MessageRepo 对话消息仓库（追加式）
// 消息写入后不再修改；读取按 (created_at, _id) 升序，
// 保证同一 (user, bot) 的并发写入读回时是同一个全序
type MessageRepo struct {
	collection *mongo.Collection
}

// NewMessageRepo 创建消息仓库
func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{
		collection: db.Collection("chats"),
	}
}

// Append 追加一条消息
// created_at 由服务端赋值；_id 由驱动生成，作为同毫秒写入的决定性次级排序键
func (r *MessageRepo) Append(ctx context.Context, msg *model.Message) error {
	msg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// ListByUserAndBot 读取一段对话的全部消息，创建时间升序
func (r *MessageRepo) ListByUserAndBot(ctx context.Context, userID, botID string) ([]*model.Message, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: 1}, bson.E{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{
		"user_id": userID,
		"bot_id":  botID,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []*model.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}

	return msgs, nil
}

// Watch 订阅一段对话的新消息（实时视图的数据源）
func (r *MessageRepo) Watch(ctx context.Context, userID, botID string) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{bson.E{Key: "$match", Value: bson.M{
			"operationType":        "insert",
			"fullDocument.user_id": userID,
			"fullDocument.bot_id":  botID,
		}}},
	}

	return r.collection.Watch(ctx, pipeline)
}
