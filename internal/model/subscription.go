package model

import "time"

// Plan 订阅套餐
type Plan string

const (
	PlanFree Plan = "Free"
	PlanPro  Plan = "Pro"
)

// 订阅状态
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
)

// Subscription 订阅记录（每个用户一条，_id 即 userID）
// 只允许支付 webhook 或服务端 verify 流程升级到 Pro/active
type Subscription struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Plan      Plan      `bson:"plan" json:"plan"`
	Status    string    `bson:"status" json:"status"`
	Reference string    `bson:"reference,omitempty" json:"reference,omitempty"` // 支付交易引用号
	Amount    int64     `bson:"amount,omitempty" json:"amount,omitempty"`       // 支付金额（最小货币单位）
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsPaid 判断是否为付费用户（配额决策的唯一依据）
func (s *Subscription) IsPaid() bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionStatusActive || s.Plan == PlanPro
}

// DefaultSubscription 未订阅用户的默认记录
func DefaultSubscription(userID string) *Subscription {
	return &Subscription{
		UserID: userID,
		Plan:   PlanFree,
		Status: SubscriptionStatusInactive,
	}
}
