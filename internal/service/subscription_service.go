package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"campusai/internal/model"
	"campusai/internal/pkg/cache"
	"campusai/internal/pkg/paystack"
)

// TransactionVerifier Paystack 交易核验能力抽象
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// SubscriptionService 订阅服务
// 职责: 套餐读取（Redis 读穿缓存）、支付事件应用、服务端支付核验
type SubscriptionService struct {
	subStore SubscriptionStore
	cache    SubscriptionCache   // 可为 nil，Redis 不可用时直接读库
	verifier TransactionVerifier // 可为 nil，未配置 Paystack 时禁用 verify
}

// NewSubscriptionService 创建订阅服务
func NewSubscriptionService(subStore SubscriptionStore, subCache SubscriptionCache, verifier TransactionVerifier) *SubscriptionService {
	return &SubscriptionService{
		subStore: subStore,
		cache:    subCache,
		verifier: verifier,
	}
}

// Get 读取用户订阅
// 缓存命中直接返回；未命中读库后整体覆盖写回缓存；
// 库中无记录返回默认 Free 订阅（不落库）
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	if s.cache != nil {
		var cached model.Subscription
		if err := s.cache.Get(ctx, cache.SubscriptionCacheKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	sub, err := s.subStore.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		sub = model.DefaultSubscription(userID)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.SubscriptionCacheKey(userID), sub, cache.SubscriptionCacheTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache subscription")
		}
	}

	return sub, nil
}

// ApplyChargeSuccess 应用一次成功的支付事件
// 幂等：同一事件重复应用得到相同的最终状态（Pro/active）
// 写库成功后使缓存失效，下次读取回源
func (s *SubscriptionService) ApplyChargeSuccess(ctx context.Context, userID, reference string, amount int64) (*model.Subscription, error) {
	sub := &model.Subscription{
		UserID:    userID,
		Plan:      model.PlanPro,
		Status:    model.SubscriptionStatusActive,
		Reference: reference,
		Amount:    amount,
	}

	if err := s.subStore.Upsert(ctx, sub); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to upsert subscription")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.SubscriptionCacheKey(userID)); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate subscription cache")
		}
	}

	log.Info().
		Str("user_id", userID).
		Str("reference", reference).
		Int64("amount", amount).
		Msg("subscription upgraded to pro")

	return sub, nil
}

// VerifyPayment 服务端核验支付并升级订阅
// 不信任客户端的支付结果，以 Paystack verify 接口的结论为准
func (s *SubscriptionService) VerifyPayment(ctx context.Context, userID, reference string) (*model.Subscription, error) {
	if s.verifier == nil {
		return nil, paystack.ErrTransactionNotVerified
	}

	tx, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	return s.ApplyChargeSuccess(ctx, userID, tx.Reference, tx.Amount)
}
