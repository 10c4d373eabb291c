package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/service"
)

// SyncHandler 同步服务处理器
type SyncHandler struct {
	syncService *service.SyncService
	startedAt   time.Time
}

// NewSyncHandler 创建同步服务处理器
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		startedAt:   time.Now(),
	}
}

// Health 健康检查
func (h *SyncHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Status 查询同步统计
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code: "OK",
		Data: h.syncService.Stats(),
	})
}

// RunNow 请求立即执行一轮同步
func (h *SyncHandler) RunNow(c *gin.Context) {
	h.syncService.TriggerSync()
	c.JSON(http.StatusAccepted, SuccessResponse{
		Code:    "TRIGGERED",
		Message: "同步已触发，将在当前周期结束后尽快执行",
	})
}

// clientView 目录记录的展示形态
type clientView struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Mac     string `json:"mac"`
	State   string `json:"state"`
	Comment string `json:"comment"`
}

// Clients 列出当前目录快照
func (h *SyncHandler) Clients(c *gin.Context) {
	snapshot := h.syncService.Directory().Snapshot()
	clients := make([]clientView, 0, len(snapshot))
	for _, b := range snapshot {
		clients = append(clients, clientView{
			Name:    b.ClientName(),
			Phone:   b.ClientPhone(),
			Mac:     b.MacAddress,
			State:   b.Type,
			Comment: b.Comment,
		})
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Code: "OK",
		Data: gin.H{
			"total":   len(clients),
			"clients": clients,
		},
	})
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
