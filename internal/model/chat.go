package model

import "time"

// 消息发送方
const (
	FromUser = "user"
	FromBot  = "bot"
)

// ChatMessage 聊天记录（只追加）
type ChatMessage struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
