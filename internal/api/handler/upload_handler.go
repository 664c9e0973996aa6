package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"course-planner/backend/config"
	"course-planner/backend/internal/service"
	"course-planner/backend/pkg/response"
)

// UploadHandler 上传模块 HTTP 处理器
//
// 文件内容只用于类型嗅探，不落盘
type UploadHandler struct {
	uploadSvc service.UploadService
	cfg       *config.UploadConfig
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(uploadSvc service.UploadService, cfg *config.UploadConfig) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc, cfg: cfg}
}

// UploadPDF 登记 PDF 上传
// POST /api/v1/uploads/pdf  (multipart, field "file")
func (h *UploadHandler) UploadPDF(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件 file")
		return
	}

	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		response.BadRequest(c, 13001, "仅支持 PDF 文件")
		return
	}
	if fh.Size > h.cfg.MaxSize {
		response.TooLarge(c, 13002, fmt.Sprintf("文件大小超过限制（%d 字节）", h.cfg.MaxSize))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	if !h.allowed(mt) {
		response.BadRequest(c, 13001, "仅支持 PDF 文件")
		return
	}

	rec, err := h.uploadSvc.Register(c.Request.Context(), fh.Filename, fh.Size, mt.String())
	if err != nil {
		h.handleUploadError(c, err)
		return
	}

	response.Created(c, rec)
}

// ListUploads 获取上传记录
// GET /api/v1/uploads
func (h *UploadHandler) ListUploads(c *gin.Context) {
	list, err := h.uploadSvc.List(c.Request.Context())
	if err != nil {
		h.handleUploadError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

func (h *UploadHandler) allowed(mt *mimetype.MIME) bool {
	for _, t := range h.cfg.AllowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func (h *UploadHandler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUploadNameRequired):
		response.BadRequest(c, 13003, "文件名不能为空")
	case errors.Is(err, service.ErrUploadInvalidSize):
		response.BadRequest(c, 13004, "文件大小无效")
	default:
		handleCommonError(c, err)
	}
}
