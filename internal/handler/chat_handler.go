// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"pai-companion-go/internal/service"
	"pai-companion-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler 负责处理对话相关的 API 请求。
type ChatHandler struct {
	responderService service.ResponderService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(responderService service.ResponderService) *ChatHandler {
	return &ChatHandler{responderService: responderService}
}

// SendMessage 处理一轮用户消息并返回伴侣的回复。
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SendMessage: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：userId、companionId 和 message 不能为空",
		})
		return
	}

	resp, err := h.responderService.HandleUserMessage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrTurnInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"code":    http.StatusConflict,
				"message": "上一轮对话仍在处理中，请稍候",
			})
			return
		}
		log.Errorf("SendMessage: 处理消息失败, userID=%d, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "处理消息失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    resp,
	})
}
