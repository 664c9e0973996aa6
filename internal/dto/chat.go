package dto

import "course-planner/backend/internal/model"

// ── 聊天模块 DTO ──

// ChatRequest 发送消息
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatResponse 脚本回复
type ChatResponse struct {
	Reply    string                `json:"reply"`
	Rule     string                `json:"rule"`
	Schedule *model.WeeklySchedule `json:"schedule,omitempty"` // 仅在触发生成课表时返回
}

// ChatHistoryResponse 聊天记录
type ChatHistoryResponse struct {
	Messages []model.ChatMessage `json:"messages"`
}
