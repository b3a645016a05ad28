package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"campusai/internal/model"
	"campusai/internal/pkg/ctxutil"
	pkghttp "campusai/internal/pkg/http"
	"campusai/internal/service"
)

// BotHandler 自定义 Bot 处理器
type BotHandler struct {
	botService *service.BotService
}

// NewBotHandler 创建 Bot 处理器
func NewBotHandler(botService *service.BotService) *BotHandler {
	return &BotHandler{botService: botService}
}

// CreateBotRequest 创建自定义 Bot 请求
type CreateBotRequest struct {
	Name        string `json:"name" binding:"required,max=100"`                       // 主题名称（必填）
	Description string `json:"description" binding:"omitempty,max=500"`               // 描述（可选）
	Type        string `json:"type" binding:"required,oneof=field profession topic"` // Bot类型（必填）
}

// List 获取 Bot 列表
// @Summary      获取Bot列表
// @Description  返回内置Bot与当前用户的自定义Bot
// @Tags         Bot
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pkghttp.SuccessResponse
// @Failure      401  {object}  pkghttp.ErrorResponse
// @Failure      500  {object}  pkghttp.ErrorResponse
// @Router       /api/v1/bots [get]
func (h *BotHandler) List(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	bots, err := h.botService.List(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bots")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "获取Bot列表失败"))
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("success", gin.H{"bots": bots}))
}

// Create 创建自定义 Bot
// @Summary      创建自定义Bot
// @Description  创建一个field/profession/topic类型的自定义Bot，人设由AI合成
// @Tags         Bot
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateBotRequest  true  "创建请求"
// @Success      200     {object}  pkghttp.SuccessResponse
// @Failure      400     {object}  pkghttp.ErrorResponse
// @Failure      403     {object}  pkghttp.ErrorResponse
// @Failure      500     {object}  pkghttp.ErrorResponse
// @Router       /api/v1/bots [post]
func (h *BotHandler) Create(c *gin.Context) {
	var req CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkghttp.NewErrorResponse(40001, "Invalid request body", err.Error()))
		return
	}

	userID, _ := ctxutil.GetUserID(c.Request.Context())

	created, err := h.botService.Create(c.Request.Context(), userID, service.CreateBotParams{
		Name:        req.Name,
		Description: req.Description,
		Kind:        model.BotKind(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBotKind):
			c.JSON(http.StatusBadRequest, pkghttp.NewErrorResponse(40002, err.Error()))
		case errors.Is(err, service.ErrQuotaExceeded):
			c.JSON(http.StatusForbidden, pkghttp.NewErrorResponse(40301, err.Error()))
		default:
			log.Error().Err(err).Msg("failed to create bot")
			c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "创建Bot失败"))
		}
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("创建成功", created.ToBot()))
}

// Delete 删除自定义 Bot
// @Summary      删除自定义Bot
// @Description  删除当前用户的自定义Bot，不能删除内置Bot和他人的Bot
// @Tags         Bot
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bot ID"
// @Success      200  {object}  pkghttp.SuccessResponse
// @Failure      404  {object}  pkghttp.ErrorResponse
// @Failure      500  {object}  pkghttp.ErrorResponse
// @Router       /api/v1/bots/{id} [delete]
func (h *BotHandler) Delete(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())
	botID := c.Param("id")

	if err := h.botService.Delete(c.Request.Context(), userID, botID); err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			c.JSON(http.StatusNotFound, pkghttp.NewErrorResponse(40401, err.Error()))
			return
		}
		log.Error().Err(err).Msg("failed to delete bot")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "删除Bot失败"))
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("删除成功", nil))
}

// Watch 订阅 Bot 列表变更 (SSE)
// 每次变更推送完整列表快照，客户端直接整体替换本地状态
// @Summary      订阅Bot列表变更
// @Description  SSE流，连接后先推送一次完整列表，之后每次变更推送最新列表
// @Tags         Bot
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      500  {object}  pkghttp.ErrorResponse
// @Router       /api/v1/bots/watch [get]
func (h *BotHandler) Watch(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := ctxutil.GetUserID(ctx)

	stream, err := h.botService.Watch(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to open bot change stream")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50301, "实时订阅不可用"))
		return
	}
	defer stream.Close(ctx)

	// 设置 SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// 连接建立后先推一次完整快照
	if bots, err := h.botService.List(ctx, userID); err == nil {
		c.SSEvent("bots", gin.H{"bots": bots})
		c.Writer.Flush()
	}

	c.Stream(func(w io.Writer) bool {
		if !stream.Next(ctx) {
			return false
		}
		bots, err := h.botService.List(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Msg("failed to reload bots after change event")
			return false
		}
		c.SSEvent("bots", gin.H{"bots": bots})
		return true
	})
}
