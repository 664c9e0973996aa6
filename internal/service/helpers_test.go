package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"course-planner/backend/internal/repository"
	"course-planner/backend/internal/store"
)

// ── 测试辅助 ──

var errBackendDown = errors.New("backend down")

// downDriver 所有调用都失败，模拟存储不可用
type downDriver struct{}

func (downDriver) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (downDriver) Set(context.Context, string, []byte) error { return errBackendDown }
func (downDriver) Close() error { return nil }

func fixedNow() time.Time {
	return time.Date(2025, time.September, 3, 10, 30, 0, 0, time.UTC)
}

// newTestRepo 基于内存驱动的 Repository
func newTestRepo() *repository.Repository {
	return repository.NewRepository(store.New(store.NewMemoryDriver(), zap.NewNop()))
}

// newSeededRepo 写入演示数据后的 Repository
func newSeededRepo(t *testing.T) *repository.Repository {
	t.Helper()
	st := store.New(store.NewMemoryDriver(), zap.NewNop())
	if err := st.Seed(context.Background(), store.DemoCourses()); err != nil {
		t.Fatalf("Seed 应成功: %v", err)
	}
	return repository.NewRepository(st)
}

func newDownRepo() *repository.Repository {
	return repository.NewRepository(store.New(downDriver{}, zap.NewNop()))
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
