package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"course-planner/backend/internal/model"
	"course-planner/backend/internal/store"
)

// CourseFilter 课程列表过滤条件，空字段不过滤
type CourseFilter struct {
	Status string // 精确匹配；空状态按 planned 处理
	Term   string // 精确匹配（忽略大小写）
	Code   string // 子串匹配（忽略大小写）
	Day    string // prefs.days 包含该天
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// Create 分配新 ID，状态缺省为 planned，插入到列表头部
	Create(ctx context.Context, course *model.Course) error
	// Update 浅合并 patch，记录不存在时返回 ErrNotFound
	Update(ctx context.Context, id string, patch *model.CoursePatch) (*model.Course, error)
	// Delete 记录不存在时同样返回 nil
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	st *store.Store
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(st *store.Store) CourseRepository {
	return &courseRepo{st: st}
}

func (r *courseRepo) load(ctx context.Context) ([]model.Course, error) {
	return store.Read(ctx, r.st, store.KeyCourses, []model.Course{})
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	var result []model.Course
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		courses, err := r.load(ctx)
		if err != nil {
			return err
		}
		result = make([]model.Course, 0, len(courses))
		for _, c := range courses {
			if filter.match(&c) {
				result = append(result, c)
			}
		}
		return nil
	})
	return result, err
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var found *model.Course
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		courses, err := r.load(ctx)
		if err != nil {
			return err
		}
		for i := range courses {
			if courses[i].ID == id {
				found = &courses[i]
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.st.Atomic(ctx, func(ctx context.Context) error {
		courses, err := r.load(ctx)
		if err != nil {
			return err
		}

		saved := *course
		saved.ID = uuid.NewString()
		if saved.Status == "" {
			saved.Status = model.StatusPlanned
		}

		courses = append([]model.Course{saved}, courses...)
		if err := r.st.Write(ctx, store.KeyCourses, courses); err != nil {
			return err
		}
		*course = saved
		return nil
	})
}

func (r *courseRepo) Update(ctx context.Context, id string, patch *model.CoursePatch) (*model.Course, error) {
	var updated *model.Course
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		courses, err := r.load(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range courses {
			if courses[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}

		merged := patch.Apply(courses[idx])
		courses[idx] = merged
		if err := r.st.Write(ctx, store.KeyCourses, courses); err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	return updated, err
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.st.Atomic(ctx, func(ctx context.Context) error {
		courses, err := r.load(ctx)
		if err != nil {
			return err
		}

		kept := make([]model.Course, 0, len(courses))
		for _, c := range courses {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(courses) {
			return nil // 幂等：不存在即成功，无需写入
		}
		return r.st.Write(ctx, store.KeyCourses, kept)
	})
}

func (f CourseFilter) match(c *model.Course) bool {
	if f.Status != "" {
		status := c.Status
		if status == "" {
			status = model.StatusPlanned
		}
		if status != f.Status {
			return false
		}
	}
	if f.Term != "" && !strings.EqualFold(c.Term, f.Term) {
		return false
	}
	if f.Code != "" && !strings.Contains(strings.ToLower(c.Code), strings.ToLower(f.Code)) {
		return false
	}
	if f.Day != "" {
		hit := false
		for _, d := range c.Prefs.Days {
			if d == f.Day {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
