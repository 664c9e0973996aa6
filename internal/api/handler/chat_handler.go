package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/service"
	"course-planner/backend/pkg/response"
)

// ChatHandler 聊天模块 HTTP 处理器
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Send 发送消息并获取脚本回复
// POST /api/v1/chat
// 请求体或 text 为空时按空消息处理，得到默认回复
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.chatSvc.Send(c.Request.Context(), &req)
	if err != nil {
		h.handleChatError(c, err)
		return
	}

	response.OK(c, resp)
}

// History 获取聊天记录
// GET /api/v1/chat/history
func (h *ChatHandler) History(c *gin.Context) {
	history, err := h.chatSvc.History(c.Request.Context())
	if err != nil {
		h.handleChatError(c, err)
		return
	}

	response.OK(c, dto.ChatHistoryResponse{Messages: history})
}

func (h *ChatHandler) handleChatError(c *gin.Context, err error) {
	handleCommonError(c, err)
}
