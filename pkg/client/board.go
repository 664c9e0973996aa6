package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
)

// pendingPrefix 乐观新增时的占位 ID 前缀，服务端确认后替换为真实 ID
const pendingPrefix = "pending-"

// CourseAPI Board 依赖的远端课程接口（*Client 实现）
type CourseAPI interface {
	ListCourses(ctx context.Context, filter *dto.CourseListRequest) ([]model.Course, error)
	CreateCourse(ctx context.Context, in *dto.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, id string, in *dto.UpdateCourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// Board 本地课程视图
// 修改先作用于本地列表，远端失败时恢复到修改前的快照
type Board struct {
	opMu    sync.Mutex // 串行化修改，跨越远端调用
	mu      sync.Mutex // 保护 courses
	api     CourseAPI
	courses []model.Course
}

func NewBoard(api CourseAPI) *Board {
	return &Board{api: api}
}

// Load 用服务端列表覆盖本地视图
func (b *Board) Load(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	list, err := b.api.ListCourses(ctx, nil)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses = slices.Clone(list)
	return nil
}

// Courses 返回本地视图副本
func (b *Board) Courses() []model.Course {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.courses)
}

// Add 先以占位 ID 插到列表头部（与服务端顺序一致），成功后替换为服务端记录
func (b *Board) Add(ctx context.Context, in *dto.CreateCourseRequest) (*model.Course, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	var created *model.Course
	placeholder := in.ToModel()
	placeholder.ID = pendingPrefix + uuid.NewString()

	err := b.apply(ctx,
		func(list []model.Course) []model.Course {
			return append([]model.Course{placeholder}, list...)
		},
		func(ctx context.Context) error {
			c, err := b.api.CreateCourse(ctx, in)
			if err != nil {
				return err
			}
			created = c
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(placeholder.ID); i >= 0 {
		b.courses[i] = *created
	}
	return created, nil
}

// Update 本地浅合并后提交；本地不存在该 ID 时只提交远端
func (b *Board) Update(ctx context.Context, id string, in *dto.UpdateCourseRequest) (*model.Course, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	var updated *model.Course
	patch := in.ToPatch()

	err := b.apply(ctx,
		func(list []model.Course) []model.Course {
			for i := range list {
				if list[i].ID == id {
					list[i] = patch.Apply(list[i])
				}
			}
			return list
		},
		func(ctx context.Context) error {
			c, err := b.api.UpdateCourse(ctx, id, in)
			if err != nil {
				return err
			}
			updated = c
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(id); i >= 0 {
		b.courses[i] = *updated
	}
	return updated, nil
}

// Remove 幂等删除；服务端返回 404 也视为成功
func (b *Board) Remove(ctx context.Context, id string) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	return b.apply(ctx,
		func(list []model.Course) []model.Course {
			return slices.DeleteFunc(list, func(c model.Course) bool { return c.ID == id })
		},
		func(ctx context.Context) error {
			err := b.api.DeleteCourse(ctx, id)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		},
	)
}

// apply 快照 → 本地修改 → 远端调用 → 失败恢复快照
// 调用方须持有 opMu；远端调用期间 Courses 可见乐观状态
func (b *Board) apply(ctx context.Context, mutate func([]model.Course) []model.Course, remote func(context.Context) error) error {
	b.mu.Lock()
	snapshot := slices.Clone(b.courses)
	b.courses = mutate(slices.Clone(b.courses))
	b.mu.Unlock()

	if err := remote(ctx); err != nil {
		b.mu.Lock()
		b.courses = snapshot
		b.mu.Unlock()
		return err
	}
	return nil
}

func (b *Board) indexOf(id string) int {
	return slices.IndexFunc(b.courses, func(c model.Course) bool { return c.ID == id })
}
