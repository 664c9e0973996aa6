package repository

import (
	"context"

	"course-planner/backend/internal/model"
	"course-planner/backend/internal/store"
)

// ScheduleRepository 最近一次生成的周课表
type ScheduleRepository interface {
	// Save 覆盖之前保存的课表
	Save(ctx context.Context, schedule *model.WeeklySchedule) error
	// Get 从未生成过课表时返回 ErrNotFound
	Get(ctx context.Context) (*model.WeeklySchedule, error)
}

type scheduleRepo struct {
	st *store.Store
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(st *store.Store) ScheduleRepository {
	return &scheduleRepo{st: st}
}

func (r *scheduleRepo) Save(ctx context.Context, schedule *model.WeeklySchedule) error {
	return r.st.Atomic(ctx, func(ctx context.Context) error {
		return r.st.Write(ctx, store.KeySchedule, schedule)
	})
}

func (r *scheduleRepo) Get(ctx context.Context) (*model.WeeklySchedule, error) {
	var schedule *model.WeeklySchedule
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		var err error
		schedule, err = store.Read[*model.WeeklySchedule](ctx, r.st, store.KeySchedule, nil)
		if err != nil {
			return err
		}
		if schedule == nil {
			return ErrNotFound
		}
		return nil
	})
	return schedule, err
}
