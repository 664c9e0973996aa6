package model

import "time"

// UploadRecord 上传文件元数据（不保存文件内容），创建后不可变
type UploadRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
