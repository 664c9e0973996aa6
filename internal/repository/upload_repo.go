package repository

import (
	"context"

	"course-planner/backend/internal/model"
	"course-planner/backend/internal/store"
)

// UploadRepository 上传记录数据访问接口（只追加）
type UploadRepository interface {
	Create(ctx context.Context, rec *model.UploadRecord) error
	List(ctx context.Context) ([]model.UploadRecord, error)
}

type uploadRepo struct {
	st *store.Store
}

// NewUploadRepo 创建 UploadRepository 实例
func NewUploadRepo(st *store.Store) UploadRepository {
	return &uploadRepo{st: st}
}

func (r *uploadRepo) Create(ctx context.Context, rec *model.UploadRecord) error {
	return r.st.Atomic(ctx, func(ctx context.Context) error {
		list, err := store.Read(ctx, r.st, store.KeyUploads, []model.UploadRecord{})
		if err != nil {
			return err
		}
		list = append(list, *rec)
		return r.st.Write(ctx, store.KeyUploads, list)
	})
}

func (r *uploadRepo) List(ctx context.Context) ([]model.UploadRecord, error) {
	var list []model.UploadRecord
	err := r.st.Atomic(ctx, func(ctx context.Context) error {
		var err error
		list, err = store.Read(ctx, r.st, store.KeyUploads, []model.UploadRecord{})
		return err
	})
	return list, err
}
