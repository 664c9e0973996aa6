package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"course-planner/backend/internal/chat"
	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
)

// ChatAction 规则命中后执行的动作，可向回复中补充数据
type ChatAction func(ctx context.Context, resp *dto.ChatResponse) error

// ChatService 聊天业务接口
//
// 设计说明：
//   - 规则匹配与动作派发由同一个 Send 完成，动作按名称注册
//   - 动作失败时直接返回错误，本轮对话不写入历史
//   - 用户消息与回复一次性追加，不会只落盘一半
//   - 空文本不命中任何规则，按默认回复处理
type ChatService interface {
	Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context) ([]model.ChatMessage, error)
}

type chatService struct {
	repo    *repository.Repository
	rules   *chat.RuleSet
	actions map[string]ChatAction
	logger  *zap.Logger
	now     func() time.Time
}

// NewChatService 创建 ChatService 实例并注册内置动作
func NewChatService(repo *repository.Repository, rules *chat.RuleSet, schedule ScheduleService, logger *zap.Logger) ChatService {
	if rules == nil {
		rules = chat.DefaultRules()
	}
	s := &chatService{
		repo:    repo,
		rules:   rules,
		actions: make(map[string]ChatAction),
		logger:  logger,
		now:     time.Now,
	}
	s.actions[chat.ActionBuildSchedule] = func(ctx context.Context, resp *dto.ChatResponse) error {
		built, err := schedule.BuildStored(ctx)
		if err != nil {
			return err
		}
		resp.Schedule = built
		return nil
	}

	for _, r := range rules.Rules {
		if r.Action != "" && s.actions[r.Action] == nil {
			logger.Warn("规则引用了未注册的动作，命中时仅回复文本",
				zap.String("rule", r.Name), zap.String("action", r.Action))
		}
	}
	return s
}

// ────────────────────── Send ──────────────────────

func (s *chatService) Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	rule := s.rules.Match(req.Text)
	resp := &dto.ChatResponse{Reply: rule.Reply, Rule: rule.Name}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if action := s.actions[rule.Action]; action != nil {
			if err := action(ctx, resp); err != nil {
				return err
			}
		}

		at := s.now().UTC()
		return s.repo.Chat.Append(ctx,
			model.ChatMessage{From: model.FromUser, Text: req.Text, At: at},
			model.ChatMessage{From: model.FromBot, Text: resp.Reply, At: at},
		)
	})
	if err != nil {
		s.logger.Error("处理聊天消息失败", zap.String("rule", rule.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("聊天规则命中", zap.String("rule", rule.Name))
	return resp, nil
}

// ────────────────────── History ──────────────────────

func (s *chatService) History(ctx context.Context) ([]model.ChatMessage, error) {
	history, err := s.repo.Chat.List(ctx)
	if err != nil {
		s.logger.Error("查询聊天记录失败", zap.Error(err))
		return nil, err
	}
	return history, nil
}
