package auth

import (
	"time"
)

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
type User struct {
	ID          string     `bson:"_id,omitempty" json:"id"` // UUID格式的ID
	Email       string     `bson:"email" json:"email"`      // 邮箱（唯一，登录凭证）
	Name        string     `bson:"name,omitempty" json:"name,omitempty"`
	Password    string     `bson:"password" json:"-"` // 密码（加密存储，不返回）
	Status      UserStatus `bson:"status" json:"status"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// UserStatus 用户状态
type UserStatus string

const (
	UserStatusActive UserStatus = "active" // 正常
	UserStatusBanned UserStatus = "banned" // 已禁用
)

// IsValid 检查状态是否有效
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusBanned
}
