package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"campusai/internal/model"
	"campusai/internal/pkg/paystack"
)

// SubscriptionUpdater 支付事件应用能力抽象
type SubscriptionUpdater interface {
	ApplyChargeSuccess(ctx context.Context, userID, reference string, amount int64) (*model.Subscription, error)
}

// WebhookHandler Paystack webhook 处理器
// 只信任HMAC-SHA512签名通过的请求体；签名使用原始字节计算，
// 任何反序列化都在验签之后
type WebhookHandler struct {
	secretKey string
	subs      SubscriptionUpdater
}

// NewWebhookHandler 创建 webhook 处理器
func NewWebhookHandler(secretKey string, subs SubscriptionUpdater) *WebhookHandler {
	return &WebhookHandler{
		secretKey: secretKey,
		subs:      subs,
	}
}

// paystackEvent Paystack 事件载荷中本服务关心的字段
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Metadata  struct {
			UserID string `json:"userId"`
		} `json:"metadata"`
	} `json:"data"`
}

// Paystack 接收 Paystack webhook 事件
// @Summary      Paystack Webhook
// @Description  接收支付事件，验签通过且为charge.success时升级对应用户的订阅
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        x-paystack-signature  header  string  true  "HMAC-SHA512签名"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/webhooks/paystack [post]
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if h.secretKey == "" {
		log.Error().Msg("paystack secret key not configured, rejecting webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook not configured"})
		return
	}

	signature := c.GetHeader(paystack.SignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
		return
	}

	if !paystack.VerifySignature([]byte(h.secretKey), body, signature) {
		log.Warn().Str("client_ip", c.ClientIP()).Msg("paystack webhook signature mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// 非支付成功事件确认收到即可
	if event.Event != "charge.success" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// 事件无法归属到用户时返回200，避免Paystack无意义地重试
	userID := event.Data.Metadata.UserID
	if userID == "" {
		log.Warn().Str("reference", event.Data.Reference).Msg("charge.success without userId metadata, skipping")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if _, err := h.subs.ApplyChargeSuccess(c.Request.Context(), userID, event.Data.Reference, event.Data.Amount); err != nil {
		// 返回非200让Paystack稍后重试
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
