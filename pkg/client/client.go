// Package client 是课程规划后端的 HTTP 客户端，供 planctl 与其他 Go 程序使用。
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	pkgerrors "course-planner/backend/pkg/errors"
)

var (
	// ErrNotFound 服务端返回 404
	ErrNotFound = errors.New("资源不存在")
	// ErrRejected 服务端拒绝请求（4xx，参数或业务校验失败）
	ErrRejected = errors.New("请求被拒绝")
)

// APIError 服务端返回的错误响应
type APIError struct {
	Status  int
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Unwrap 5xx 视为传输失败，调用方需要回滚乐观状态
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return pkgerrors.ErrTransport
	default:
		return ErrRejected
	}
}

// envelope 与 pkg/response.Response 对应
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Details string `json:"details"`
}

type listData[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

// Client 后端 API 客户端
type Client struct {
	r *resty.Client
}

// New 创建客户端；baseURL 形如 http://localhost:8000
func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{r: r}
}

// Close 关闭空闲连接
func (c *Client) Close() {
	c.r.GetClient().CloseIdleConnections()
}

// do 发送请求并解出 data
func do[T any](req *resty.Request, method, url string) (T, error) {
	var out envelope[T]
	var apiErr envelope[struct{}]
	req.SetResult(&out).SetError(&apiErr)

	resp, err := req.Execute(method, url)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s %s: %w: %w", method, url, pkgerrors.ErrTransport, err)
	}
	if resp.IsError() {
		var zero T
		return zero, &APIError{
			Status:  resp.StatusCode(),
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
	}
	return out.Data, nil
}

// ────────────────────── Health ──────────────────────

// Health 检查服务端是否可用
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.r.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrTransport, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	}
	return nil
}

// ────────────────────── Courses ──────────────────────

func (c *Client) ListCourses(ctx context.Context, filter *dto.CourseListRequest) ([]model.Course, error) {
	req := c.r.R().SetContext(ctx)
	if filter != nil {
		for k, v := range map[string]string{
			"status": filter.Status,
			"term":   filter.Term,
			"code":   filter.Code,
			"day":    filter.Day,
		} {
			if v != "" {
				req.SetQueryParam(k, v)
			}
		}
	}
	data, err := do[listData[model.Course]](req, resty.MethodGet, "/api/v1/courses")
	return data.List, err
}

func (c *Client) CreateCourse(ctx context.Context, in *dto.CreateCourseRequest) (*model.Course, error) {
	return do[*model.Course](c.r.R().SetContext(ctx).SetBody(in), resty.MethodPost, "/api/v1/courses")
}

func (c *Client) UpdateCourse(ctx context.Context, id string, in *dto.UpdateCourseRequest) (*model.Course, error) {
	req := c.r.R().SetContext(ctx).SetPathParam("id", id).SetBody(in)
	return do[*model.Course](req, resty.MethodPut, "/api/v1/courses/{id}")
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	req := c.r.R().SetContext(ctx).SetPathParam("id", id)
	_, err := do[struct{}](req, resty.MethodDelete, "/api/v1/courses/{id}")
	return err
}

// ────────────────────── Uploads ──────────────────────

// UploadPDF 上传 PDF；调用前应先用 CheckPDF 在本地校验
func (c *Client) UploadPDF(ctx context.Context, path string) (*model.UploadRecord, error) {
	req := c.r.R().SetContext(ctx).SetFile("file", path)
	return do[*model.UploadRecord](req, resty.MethodPost, "/api/v1/uploads/pdf")
}

func (c *Client) ListUploads(ctx context.Context) ([]model.UploadRecord, error) {
	data, err := do[listData[model.UploadRecord]](c.r.R().SetContext(ctx), resty.MethodGet, "/api/v1/uploads")
	return data.List, err
}

// ────────────────────── Chat ──────────────────────

func (c *Client) Chat(ctx context.Context, text string) (*dto.ChatResponse, error) {
	req := c.r.R().SetContext(ctx).SetBody(dto.ChatRequest{Text: text})
	return do[*dto.ChatResponse](req, resty.MethodPost, "/api/v1/chat")
}

func (c *Client) ChatHistory(ctx context.Context) ([]model.ChatMessage, error) {
	data, err := do[dto.ChatHistoryResponse](c.r.R().SetContext(ctx), resty.MethodGet, "/api/v1/chat/history")
	return data.Messages, err
}

// ────────────────────── Schedule ──────────────────────

// BuildSchedule in.Courses 为 nil 时服务端使用已保存的课程
func (c *Client) BuildSchedule(ctx context.Context, in *dto.BuildScheduleRequest) (*model.WeeklySchedule, error) {
	if in == nil {
		in = &dto.BuildScheduleRequest{}
	}
	req := c.r.R().SetContext(ctx).SetBody(in)
	return do[*model.WeeklySchedule](req, resty.MethodPost, "/api/v1/schedule/build")
}

func (c *Client) Schedule(ctx context.Context) (*model.WeeklySchedule, error) {
	return do[*model.WeeklySchedule](c.r.R().SetContext(ctx), resty.MethodGet, "/api/v1/schedule")
}

// ────────────────────── Plans ──────────────────────

func (c *Client) DegreePlan(ctx context.Context, major string) (*dto.DegreePlanResponse, error) {
	req := c.r.R().SetContext(ctx).SetQueryParam("major", major)
	return do[*dto.DegreePlanResponse](req, resty.MethodGet, "/api/v1/plans/degree")
}

func (c *Client) Prerequisites(ctx context.Context, code string) (*dto.PrerequisiteResponse, error) {
	req := c.r.R().SetContext(ctx).SetQueryParam("code", code)
	return do[*dto.PrerequisiteResponse](req, resty.MethodGet, "/api/v1/plans/prerequisites")
}

func (c *Client) CheckPlan(ctx context.Context) (*dto.PrerequisiteCheckResponse, error) {
	return do[*dto.PrerequisiteCheckResponse](c.r.R().SetContext(ctx), resty.MethodGet, "/api/v1/plans/check")
}
