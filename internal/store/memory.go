package store

import (
	"context"
	"sync"

	pkgerrors "course-planner/backend/pkg/errors"
)

// MemoryDriver 进程内 map 存储，用于测试与 store.driver=memory
type MemoryDriver struct {
	mutex sync.RWMutex
	table map[string][]byte
}

// NewMemoryDriver 创建空的内存 Driver
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{table: make(map[string][]byte)}
}

func (d *MemoryDriver) Get(_ context.Context, key string) ([]byte, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	b, ok := d.table[key]
	if !ok {
		return nil, pkgerrors.ErrKeyNotFound
	}
	return append([]byte(nil), b...), nil
}

func (d *MemoryDriver) Set(_ context.Context, key string, value []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.table[key] = append([]byte(nil), value...)
	return nil
}

func (d *MemoryDriver) Close() error { return nil }
