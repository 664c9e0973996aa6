package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/planner"
	"course-planner/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var ErrScheduleNotBuilt = errors.New("尚未生成课表")

// ScheduleService 课表业务接口
type ScheduleService interface {
	// Build 按请求中的课程生成课表；courses 缺省时使用已保存的课程
	Build(ctx context.Context, req *dto.BuildScheduleRequest) (*model.WeeklySchedule, error)
	// BuildStored 使用已保存的课程生成课表
	BuildStored(ctx context.Context) (*model.WeeklySchedule, error)
	// Last 最近一次生成的课表
	Last(ctx context.Context) (*model.WeeklySchedule, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Build ──────────────────────

func (s *scheduleService) Build(ctx context.Context, req *dto.BuildScheduleRequest) (*model.WeeklySchedule, error) {
	if req == nil {
		req = &dto.BuildScheduleRequest{}
	}

	var schedule *model.WeeklySchedule
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		courses := req.Courses
		if courses == nil {
			stored, err := s.repo.Course.List(ctx, repository.CourseFilter{})
			if err != nil {
				return err
			}
			courses = stored
		}

		schedule = planner.Build(courses)
		schedule.PDFIDs = req.PDFIDs
		schedule.ChatSessionID = req.ChatSessionID
		now := s.now().UTC()
		schedule.GeneratedAt = &now

		return s.repo.Schedule.Save(ctx, schedule)
	})
	if err != nil {
		s.logger.Error("生成课表失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课表已生成", zap.Int("entries", schedule.Len()))
	return schedule, nil
}

func (s *scheduleService) BuildStored(ctx context.Context) (*model.WeeklySchedule, error) {
	return s.Build(ctx, &dto.BuildScheduleRequest{})
}

// ────────────────────── Last ──────────────────────

func (s *scheduleService) Last(ctx context.Context) (*model.WeeklySchedule, error) {
	schedule, err := s.repo.Schedule.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotBuilt
		}
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	return schedule, nil
}
