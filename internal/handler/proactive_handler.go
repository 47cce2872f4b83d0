package handler

import (
	"net/http"

	"pai-companion-go/internal/service"
	"pai-companion-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ProactiveHandler 负责处理主动触达相关的 API 请求。
// 扫描由定时器周期驱动，这里的接口用于运维手动触发与查询。
type ProactiveHandler struct {
	proactiveService service.ProactiveService
}

// NewProactiveHandler 创建一个新的 ProactiveHandler 实例。
func NewProactiveHandler(proactiveService service.ProactiveService) *ProactiveHandler {
	return &ProactiveHandler{proactiveService: proactiveService}
}

// TriggerScheduleSweep 手动跑一轮排期扫描。
func (h *ProactiveHandler) TriggerScheduleSweep(c *gin.Context) {
	if err := h.proactiveService.RunScheduleSweep(c.Request.Context()); err != nil {
		log.Errorf("手动排期扫描失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "排期扫描失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
}

// TriggerDispatchSweep 手动跑一轮派发扫描。
func (h *ProactiveHandler) TriggerDispatchSweep(c *gin.Context) {
	if err := h.proactiveService.RunDispatchSweep(c.Request.Context()); err != nil {
		log.Errorf("手动派发扫描失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "派发扫描失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
}

// List 返回某对最近的触达记录。
func (h *ProactiveHandler) List(c *gin.Context) {
	userID, companionID, ok := parsePairParams(c)
	if !ok {
		return
	}

	engagements, err := h.proactiveService.Engagements(userID, companionID, 20)
	if err != nil {
		log.Errorf("查询触达记录失败: userID=%d, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "查询触达记录失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    engagements,
	})
}
