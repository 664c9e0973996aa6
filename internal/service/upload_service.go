package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
)

// ── 上传模块业务错误 ──

var (
	ErrUploadNameRequired = errors.New("文件名不能为空")
	ErrUploadInvalidSize  = errors.New("文件大小无效")
)

// UploadService 上传登记业务接口
//
// 只登记元数据，不保存文件内容；类型与大小限制由调用方（Handler / CLI）在边界处校验
type UploadService interface {
	Register(ctx context.Context, name string, size int64, contentType string) (*model.UploadRecord, error)
	List(ctx context.Context) ([]model.UploadRecord, error)
}

type uploadService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUploadService 创建 UploadService 实例
func NewUploadService(repo *repository.Repository, logger *zap.Logger) UploadService {
	return &uploadService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Register ──────────────────────

func (s *uploadService) Register(ctx context.Context, name string, size int64, contentType string) (*model.UploadRecord, error) {
	name = strings.TrimSpace(filepath.Base(filepath.ToSlash(strings.TrimSpace(name))))
	if name == "" || name == "." || name == "/" {
		return nil, ErrUploadNameRequired
	}
	if size < 0 {
		return nil, ErrUploadInvalidSize
	}

	rec := &model.UploadRecord{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        size,
		ContentType: contentType,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Upload.Create(ctx, rec); err != nil {
		s.logger.Error("登记上传文件失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("上传文件已登记", zap.String("id", rec.ID), zap.String("name", name), zap.Int64("size", size))
	return rec, nil
}

// ────────────────────── List ──────────────────────

func (s *uploadService) List(ctx context.Context) ([]model.UploadRecord, error) {
	list, err := s.repo.Upload.List(ctx)
	if err != nil {
		s.logger.Error("查询上传记录失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}
