package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pai-companion-go/internal/service"
	"pai-companion-go/pkg/log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RelationshipHandler 负责处理关系状态查询的 API 请求。
type RelationshipHandler struct {
	relationshipService service.RelationshipService
}

// NewRelationshipHandler 创建一个新的 RelationshipHandler 实例。
func NewRelationshipHandler(relationshipService service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

// Get 返回 (用户, 伴侣) 的关系状态。
func (h *RelationshipHandler) Get(c *gin.Context) {
	userID, companionID, ok := parsePairParams(c)
	if !ok {
		return
	}

	state, err := h.relationshipService.Find(userID, companionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "关系不存在",
			})
			return
		}
		log.Errorf("Get relationship: userID=%d, companionID=%d, error: %v", userID, companionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "查询关系状态失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    state,
	})
}

// parsePairParams 解析路径里的 userId 与 companionId。
func parsePairParams(c *gin.Context) (uint, uint, bool) {
	userID, err1 := strconv.ParseUint(c.Param("userId"), 10, 32)
	companionID, err2 := strconv.ParseUint(c.Param("companionId"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的 userId 或 companionId",
		})
		return 0, 0, false
	}
	return uint(userID), uint(companionID), true
}
