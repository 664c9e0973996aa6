package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotPDF       = errors.New("仅支持 PDF 文件")
	ErrFileTooLarge = errors.New("文件大小超过限制")
)

// CheckPDF 上传前的本地校验：扩展名、大小与内容类型
func CheckPDF(path string, maxSize int64) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s 是目录", ErrNotPDF, path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("%w: %d > %d 字节", ErrFileTooLarge, info.Size(), maxSize)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	if !mt.Is("application/pdf") {
		return fmt.Errorf("%w: 检测到 %s", ErrNotPDF, mt.String())
	}
	return nil
}
