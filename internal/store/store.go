package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"course-planner/backend/internal/model"
	pkgerrors "course-planner/backend/pkg/errors"
)

// 集合键
const (
	KeyCourses  = "courses"
	KeyUploads  = "uploads"
	KeyChat     = "chat"
	KeySchedule = "schedule"
)

// Driver 字节级存储后端（内存 / GORM / Redis）
// Get 在键不存在时必须返回 pkgerrors.ErrKeyNotFound
type Driver interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store 以集合为单位读写 JSON 的持久化存储
//
// 约定：
//   - 反序列化失败的数据视为不存在，返回调用方给定的默认值（仅记录 WARN）
//   - Driver 调用失败包装为 ErrTransport 返回
//   - 读-改-写操作必须放在 Atomic 中执行，保证对后续调用原子可见
type Store struct {
	drv    Driver
	logger *zap.Logger

	mu sync.Mutex

	seedOnce sync.Once
	seedErr  error
}

// New 创建 Store
func New(drv Driver, logger *zap.Logger) *Store {
	return &Store{drv: drv, logger: logger}
}

// Read 读取集合并解码为 T；键不存在或数据损坏时返回 def
func Read[T any](ctx context.Context, s *Store, key string, def T) (T, error) {
	raw, err := s.drv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrKeyNotFound) {
			return def, nil
		}
		return def, fmt.Errorf("读取 %s 失败: %w: %w", key, pkgerrors.ErrTransport, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("持久化数据损坏，使用默认值", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return v, nil
}

// Write 序列化并覆盖写入集合
func (s *Store) Write(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	if err := s.drv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("写入 %s 失败: %w: %w", key, pkgerrors.ErrTransport, err)
	}
	return nil
}

// atomicKey 标记 ctx 已持有某个 Store 的锁
type atomicKey struct{ s *Store }

// Atomic 串行执行 fn，期间其他 Atomic 调用等待
// fn 收到的 ctx 再次传入 Atomic 时直接执行，不重复加锁
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(atomicKey{s}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(context.WithValue(ctx, atomicKey{s}, struct{}{}))
}

// Seed 首次调用时写入演示数据；同一 Store 生命周期内只执行一次
// courses 仅在键缺失或数据不可读时写入，uploads/chat 缺失时写入空集合
func (s *Store) Seed(ctx context.Context, courses []model.Course) error {
	s.seedOnce.Do(func() {
		s.seedErr = s.Atomic(ctx, func(ctx context.Context) error {
			seeds := []struct {
				key   string
				value interface{}
			}{
				{KeyCourses, courses},
				{KeyUploads, []model.UploadRecord{}},
				{KeyChat, []model.ChatMessage{}},
			}
			for _, sd := range seeds {
				ok, err := s.present(ctx, sd.key)
				if err != nil {
					return err
				}
				if ok {
					continue
				}
				if err := s.Write(ctx, sd.key, sd.value); err != nil {
					return err
				}
				s.logger.Info("集合已初始化", zap.String("key", sd.key))
			}
			return nil
		})
	})
	return s.seedErr
}

// present 键存在且内容为非 null 的合法 JSON
func (s *Store) present(ctx context.Context, key string) (bool, error) {
	raw, err := s.drv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("读取 %s 失败: %w: %w", key, pkgerrors.ErrTransport, err)
	}
	raw = bytes.TrimSpace(raw)
	return json.Valid(raw) && !bytes.Equal(raw, []byte("null")), nil
}

// Close 关闭底层 Driver
func (s *Store) Close() error {
	return s.drv.Close()
}
