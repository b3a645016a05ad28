package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/ai"
	"campusai/internal/model"
	"campusai/internal/pkg/paystack"
)

// 内存实现的各 Store，用于服务层测试
// Watch 依赖 MongoDB Change Stream，测试中不覆盖

type memBotStore struct {
	bots []*model.CustomBot
}

func (s *memBotStore) Insert(_ context.Context, bot *model.CustomBot) error {
	b := *bot
	b.CreatedAt = time.Now()
	s.bots = append(s.bots, &b)
	return nil
}

func (s *memBotStore) FindByID(_ context.Context, ownerUserID, botID string) (*model.CustomBot, error) {
	for _, b := range s.bots {
		if b.ID == botID && b.OwnerUserID == ownerUserID {
			return b, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memBotStore) ListByOwner(_ context.Context, ownerUserID string) ([]*model.CustomBot, error) {
	var out []*model.CustomBot
	for _, b := range s.bots {
		if b.OwnerUserID == ownerUserID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memBotStore) CountByOwner(ctx context.Context, ownerUserID string) (int64, error) {
	bots, _ := s.ListByOwner(ctx, ownerUserID)
	return int64(len(bots)), nil
}

func (s *memBotStore) Delete(_ context.Context, ownerUserID, botID string) error {
	for i, b := range s.bots {
		if b.ID == botID && b.OwnerUserID == ownerUserID {
			s.bots = append(s.bots[:i], s.bots[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *memBotStore) Watch(context.Context, string) (*mongo.ChangeStream, error) {
	return nil, errors.New("watch not supported")
}

type memMessageStore struct {
	msgs      []*model.Message
	appendErr error
}

func (s *memMessageStore) Append(_ context.Context, msg *model.Message) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	m := *msg
	m.CreatedAt = time.Now()
	s.msgs = append(s.msgs, &m)
	return nil
}

func (s *memMessageStore) ListByUserAndBot(_ context.Context, userID, botID string) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range s.msgs {
		if m.UserID == userID && m.BotID == botID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMessageStore) Watch(context.Context, string, string) (*mongo.ChangeStream, error) {
	return nil, errors.New("watch not supported")
}

type memSubStore struct {
	subs      map[string]*model.Subscription
	findCalls int
}

func newMemSubStore() *memSubStore {
	return &memSubStore{subs: make(map[string]*model.Subscription)}
}

func (s *memSubStore) FindByUserID(_ context.Context, userID string) (*model.Subscription, error) {
	s.findCalls++
	sub, ok := s.subs[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *sub
	return &copied, nil
}

func (s *memSubStore) Upsert(_ context.Context, sub *model.Subscription) error {
	sub.UpdatedAt = time.Now()
	copied := *sub
	s.subs[sub.UserID] = &copied
	return nil
}

type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	data, ok := c.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// stubCompleter 记录每次调用的 prompt/safety，按脚本返回
type stubCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
	safetys []*ai.SafetyConfig
}

func (c *stubCompleter) Complete(_ context.Context, prompt string, safety *ai.SafetyConfig) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	c.safetys = append(c.safetys, safety)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

// stubPlanSource 固定返回配置的订阅
type stubPlanSource struct {
	sub *model.Subscription
	err error
}

func (p *stubPlanSource) Get(_ context.Context, userID string) (*model.Subscription, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.sub != nil {
		return p.sub, nil
	}
	return model.DefaultSubscription(userID), nil
}

// stubVerifier 按脚本返回交易核验结果
type stubVerifier struct {
	tx    *paystack.Transaction
	err   error
	calls int
}

func (v *stubVerifier) VerifyTransaction(_ context.Context, reference string) (*paystack.Transaction, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.tx, nil
}
