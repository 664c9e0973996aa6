package repository

import (
	"context"

	"course-planner/backend/internal/model"
	"course-planner/backend/internal/store"
)

// ChatRepository 聊天记录数据访问接口（只追加，不修改不删除）
type ChatRepository interface {
	Append(ctx context.Context, msgs ...model.ChatMessage) error
	List(ctx context.Context) ([]model.ChatMessage, error)
}

type chatRepo struct {
	st *store.Store
}

// NewChatRepo 创建 ChatRepository 实例
func NewChatRepo(st *store.Store) ChatRepository {
	return &chatRepo{st: st}
}

// Append 一次写入全部消息，用户消息与回复要么同时落盘要么都不落盘
func (r *chatRepo) Append(ctx context.Context, msgs ...model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.st.Atomic(ctx, func(ctx context.Context) error {
		history, err := store.Read(ctx, r.st, store.KeyChat, []model.ChatMessage{})
		if err != nil {
			return err
		}
		history = append(history, msgs...)
		return r.st.Write(ctx, store.KeyChat, history)
	})
}

func (r *chatRepo) List(ctx context.Context) ([]model.ChatMessage, error) {
	var history []model.ChatMessage
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		var err error
		history, err = store.Read(ctx, r.st, store.KeyChat, []model.ChatMessage{})
		return err
	})
	return history, err
}
