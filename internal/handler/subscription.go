package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"campusai/internal/pkg/ctxutil"
	pkghttp "campusai/internal/pkg/http"
	"campusai/internal/pkg/paystack"
	"campusai/internal/service"
)

// SubscriptionHandler 订阅处理器
type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

// NewSubscriptionHandler 创建订阅处理器
func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Get 获取当前订阅
// @Summary      获取当前订阅
// @Description  返回当前用户的套餐与状态，无记录时为Free/inactive
// @Tags         订阅
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pkghttp.SuccessResponse
// @Failure      500  {object}  pkghttp.ErrorResponse
// @Router       /api/v1/subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	sub, err := h.subService.Get(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load subscription")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "获取订阅失败"))
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("success", sub))
}

// VerifyPaymentRequest 支付核验请求
type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"` // Paystack交易引用号（必填）
}

// Verify 核验支付并升级订阅
// @Summary      核验支付
// @Description  服务端调用Paystack确认交易成功后升级到Pro，不信任客户端的支付结果
// @Tags         订阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      VerifyPaymentRequest  true  "核验请求"
// @Success      200      {object}  pkghttp.SuccessResponse
// @Failure      400      {object}  pkghttp.ErrorResponse
// @Failure      402      {object}  pkghttp.ErrorResponse
// @Failure      500      {object}  pkghttp.ErrorResponse
// @Router       /api/v1/subscription/verify [post]
func (h *SubscriptionHandler) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkghttp.NewErrorResponse(40001, "Invalid request body", err.Error()))
		return
	}

	userID, _ := ctxutil.GetUserID(c.Request.Context())

	sub, err := h.subService.VerifyPayment(c.Request.Context(), userID, req.Reference)
	if err != nil {
		if errors.Is(err, paystack.ErrTransactionNotVerified) {
			c.JSON(http.StatusPaymentRequired, pkghttp.NewErrorResponse(40201, "支付未确认", err.Error()))
			return
		}
		log.Error().Err(err).Msg("failed to verify payment")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "支付核验失败"))
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("订阅已升级", sub))
}
