package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader Paystack webhook 签名请求头
const SignatureHeader = "x-paystack-signature"

// ComputeSignature 计算请求体的 HMAC-SHA512 签名（hex编码）
// Paystack 使用账户的 secret key 对原始请求体做 HMAC-SHA512
func ComputeSignature(secret, body []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 校验 webhook 签名
// 使用常量时间比较，避免时序侧信道
func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
