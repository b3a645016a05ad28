package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusai/internal/service"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`      // 邮箱（必填，登录凭证）
	Password string `json:"password" binding:"required,min=6"`   // 密码（必填，最少6位）
	Name     string `json:"name" binding:"omitempty,max=64"`     // 显示名称（可选）
}

// RegisterResponseData 注册响应数据
type RegisterResponseData struct {
	UserID string `json:"user_id"` // 用户ID
	Email  string `json:"email"`   // 邮箱
	Status string `json:"status"`  // 状态
}

// Register 用户注册
// @Summary      用户注册
// @Description  使用邮箱和密码注册，注册成功即可登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.authService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Code:    40901,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "注册成功",
		"data": RegisterResponseData{
			UserID: resp.UserID,
			Email:  resp.Email,
			Status: resp.Status,
		},
	})
}
