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

// defaultChatPath Bot 不存在时客户端可回落的默认对话路径
const defaultChatPath = "/chat/general/knowledge"

// ChatHandler 对话处理器
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"` // 消息内容（必填）
}

// SendMessage 发送消息
// @Summary      发送消息
// @Description  向指定Bot发送一条消息并取得回复
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string              true  "Bot类型：general/field/profession/topic/custom"
// @Param        id       path      string              true  "Bot ID"
// @Param        request  body      SendMessageRequest  true  "消息"
// @Success      200      {object}  pkghttp.SuccessResponse
// @Failure      400      {object}  pkghttp.ErrorResponse
// @Failure      404      {object}  pkghttp.ErrorResponse
// @Failure      502      {object}  pkghttp.ErrorResponse
// @Router       /api/v1/chat/{kind}/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkghttp.NewErrorResponse(40001, "Invalid request body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	userID, _ := ctxutil.GetUserID(ctx)
	kind := c.Param("kind")
	botID := c.Param("id")

	result, err := h.chatService.Send(ctx, userID, kind, botID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBotNotFound):
			c.JSON(http.StatusNotFound, pkghttp.NewErrorResponse(40401, err.Error(), defaultChatPath))
		case errors.Is(err, service.ErrCompletionFailed):
			c.JSON(http.StatusBadGateway, pkghttp.NewErrorResponse(50201, service.ErrCompletionFailed.Error()))
		default:
			log.Error().Err(err).Msg("failed to send message")
			c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "发送消息失败"))
		}
		return
	}

	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("success", gin.H{
		"message": result.AssistantMessage,
	}))
}

// History 获取对话历史
// @Summary      获取对话历史
// @Description  返回当前用户与指定Bot的全部消息，按时间升序
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Bot类型"
// @Param        id    path      string  true  "Bot ID"
// @Success      200   {object}  pkghttp.SuccessResponse
// @Failure      404   {object}  pkghttp.ErrorResponse
// @Failure      500   {object}  pkghttp.ErrorResponse
// @Router       /api/v1/chat/{kind}/{id}/messages [get]
func (h *ChatHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := ctxutil.GetUserID(ctx)
	kind := c.Param("kind")
	botID := c.Param("id")

	msgs, err := h.chatService.History(ctx, userID, kind, botID)
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			c.JSON(http.StatusNotFound, pkghttp.NewErrorResponse(40401, err.Error(), defaultChatPath))
			return
		}
		log.Error().Err(err).Msg("failed to load chat history")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50001, "获取对话历史失败"))
		return
	}

	if msgs == nil {
		msgs = []*model.Message{}
	}
	c.JSON(http.StatusOK, pkghttp.NewSuccessResponse("success", gin.H{"messages": msgs}))
}

// changeEvent Change Stream 事件中本服务关心的部分
type changeEvent struct {
	FullDocument model.Message `bson:"fullDocument"`
}

// Watch 订阅对话新消息 (SSE)
// @Summary      订阅对话新消息
// @Description  SSE流，每有新消息写入即推送一条
// @Tags         对话
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        kind  path  string  true  "Bot类型"
// @Param        id    path  string  true  "Bot ID"
// @Success      200
// @Failure      404  {object}  pkghttp.ErrorResponse
// @Failure      500  {object}  pkghttp.ErrorResponse
// @Router       /api/v1/chat/{kind}/{id}/watch [get]
func (h *ChatHandler) Watch(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := ctxutil.GetUserID(ctx)
	kind := c.Param("kind")
	botID := c.Param("id")

	stream, err := h.chatService.Watch(ctx, userID, kind, botID)
	if err != nil {
		if errors.Is(err, service.ErrBotNotFound) {
			c.JSON(http.StatusNotFound, pkghttp.NewErrorResponse(40401, err.Error(), defaultChatPath))
			return
		}
		log.Error().Err(err).Msg("failed to open message change stream")
		c.JSON(http.StatusInternalServerError, pkghttp.NewErrorResponse(50301, "实时订阅不可用"))
		return
	}
	defer stream.Close(ctx)

	// 设置 SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		if !stream.Next(ctx) {
			return false
		}
		var evt changeEvent
		if err := stream.Decode(&evt); err != nil {
			log.Warn().Err(err).Msg("failed to decode change event")
			return true
		}
		c.SSEvent("message", evt.FullDocument)
		return true
	})
}
