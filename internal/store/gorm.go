package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-planner/backend/internal/model"
	pkgerrors "course-planner/backend/pkg/errors"
)

// GormDriver 基于 store_entries 表的 Driver（SQLite / PostgreSQL）
type GormDriver struct {
	db *gorm.DB
}

// NewGormDriver 创建 GormDriver；表结构由调用方负责迁移
func NewGormDriver(db *gorm.DB) *GormDriver {
	return &GormDriver{db: db}
}

// AutoMigrate 用于 SQLite：PostgreSQL 走 golang-migrate
func (d *GormDriver) AutoMigrate() error {
	return d.db.AutoMigrate(&model.StoreEntry{})
}

func (d *GormDriver) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.StoreEntry
	err := d.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (d *GormDriver) Set(ctx context.Context, key string, value []byte) error {
	entry := model.StoreEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (d *GormDriver) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
