package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrValidationFailed = errors.New("课程数据校验失败")
)

// CourseService 课程业务接口
type CourseService interface {
	List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error)
	// Update 浅合并后整体校验，记录不存在时返回 ErrCourseNotFound
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.Course, error)
	// Delete 幂等，记录不存在时同样成功
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo     *repository.Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, validate: newValidator(), logger: logger}
}

// newValidator 校验错误中的字段名使用 json 标签
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, error) {
	filter := repository.CourseFilter{}
	if req != nil {
		filter = repository.CourseFilter{
			Status: strings.TrimSpace(req.Status),
			Term:   strings.TrimSpace(req.Term),
			Code:   strings.TrimSpace(req.Code),
			Day:    strings.TrimSpace(req.Day),
		}
	}

	courses, err := s.repo.Course.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	return courses, nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	course := req.ToModel()
	trimCourse(&course)
	if course.Status == "" {
		course.Status = model.StatusPlanned
	}
	if err := s.validateCourse(&course); err != nil {
		return nil, err
	}

	if err := s.repo.Course.Create(ctx, &course); err != nil {
		s.logger.Error("创建课程失败", zap.String("code", course.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建", zap.String("id", course.ID), zap.String("code", course.Code))
	return &course, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.Course, error) {
	patch := req.ToPatch()
	trimPatch(patch)

	var updated *model.Course
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Course.GetByID(ctx, id)
		if err != nil {
			return err
		}

		merged := patch.Apply(*existing)
		if err := s.validateCourse(&merged); err != nil {
			return err
		}

		updated, err = s.repo.Course.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		if errors.Is(err, ErrValidationFailed) {
			return nil, err
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return updated, nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部方法 ──

func (s *courseService) validateCourse(c *model.Course) error {
	err := s.validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s 不满足 %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, "; "))
}

func trimCourse(c *model.Course) {
	c.Code = strings.TrimSpace(c.Code)
	c.Title = strings.TrimSpace(c.Title)
	c.Term = strings.TrimSpace(c.Term)
	c.Status = strings.TrimSpace(c.Status)
	c.Grade = strings.TrimSpace(c.Grade)
}

func trimPatch(p *model.CoursePatch) {
	for _, f := range []*string{p.Code, p.Title, p.Term, p.Status, p.Grade} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
