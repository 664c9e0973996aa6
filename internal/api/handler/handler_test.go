package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"course-planner/backend/config"
	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/service"
	pkgerrors "course-planner/backend/pkg/errors"
	"course-planner/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CourseService ──

type mockCourseService struct {
	listResult   []model.Course
	listErr      error
	lastListReq  *dto.CourseListRequest
	createResult *model.Course
	createErr    error
	updateResult *model.Course
	updateErr    error
	deleteErr    error
	deletedID    string
}

func (m *mockCourseService) List(_ context.Context, req *dto.CourseListRequest) ([]model.Course, error) {
	m.lastListReq = req
	return m.listResult, m.listErr
}
func (m *mockCourseService) Create(_ context.Context, _ *dto.CreateCourseRequest) (*model.Course, error) {
	return m.createResult, m.createErr
}
func (m *mockCourseService) Update(_ context.Context, _ string, _ *dto.UpdateCourseRequest) (*model.Course, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCourseService) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.deleteErr
}

// ── Mock UploadService ──

type mockUploadService struct {
	registered  *model.UploadRecord
	registerErr error
	listResult  []model.UploadRecord
	listErr     error
}

func (m *mockUploadService) Register(_ context.Context, name string, size int64, contentType string) (*model.UploadRecord, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registered = &model.UploadRecord{ID: "upload-1", Name: name, Size: size, ContentType: contentType}
	return m.registered, nil
}
func (m *mockUploadService) List(_ context.Context) ([]model.UploadRecord, error) {
	return m.listResult, m.listErr
}

// ── Mock ChatService ──

type mockChatService struct {
	sent          *dto.ChatRequest
	sendResult    *dto.ChatResponse
	sendErr       error
	historyResult []model.ChatMessage
	historyErr    error
}

func (m *mockChatService) Send(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	m.sent = req
	return m.sendResult, m.sendErr
}
func (m *mockChatService) History(_ context.Context) ([]model.ChatMessage, error) {
	return m.historyResult, m.historyErr
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	buildResult *model.WeeklySchedule
	buildErr    error
	lastReq     *dto.BuildScheduleRequest
	lastResult  *model.WeeklySchedule
	lastErr     error
}

func (m *mockScheduleService) Build(_ context.Context, req *dto.BuildScheduleRequest) (*model.WeeklySchedule, error) {
	m.lastReq = req
	return m.buildResult, m.buildErr
}
func (m *mockScheduleService) BuildStored(ctx context.Context) (*model.WeeklySchedule, error) {
	return m.Build(ctx, &dto.BuildScheduleRequest{})
}
func (m *mockScheduleService) Last(_ context.Context) (*model.WeeklySchedule, error) {
	return m.lastResult, m.lastErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	data     []byte
	filename string
	err      error
}

func (m *mockExportService) ExportXLSX(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportICS(_ context.Context, _ *dto.ExportScheduleRequest) ([]byte, string, error) {
	return m.data, m.filename, m.err
}

// ── Mock PlanService / PreferenceService ──

type mockPlanService struct {
	degreeResult *dto.DegreePlanResponse
	degreeErr    error
	checkResult  *dto.PrerequisiteCheckResponse
	checkErr     error
}

func (m *mockPlanService) DegreePlan(_ context.Context, _ string) (*dto.DegreePlanResponse, error) {
	return m.degreeResult, m.degreeErr
}
func (m *mockPlanService) Prerequisites(code string) *dto.PrerequisiteResponse {
	return &dto.PrerequisiteResponse{Code: code, Prerequisites: []string{}}
}
func (m *mockPlanService) Check(_ context.Context) (*dto.PrerequisiteCheckResponse, error) {
	return m.checkResult, m.checkErr
}

type mockPreferenceService struct {
	lastRaw json.RawMessage
	err     error
}

func (m *mockPreferenceService) Normalize(raw json.RawMessage) (*dto.PreferencesResponse, error) {
	m.lastRaw = raw
	if m.err != nil {
		return nil, m.err
	}
	return &dto.PreferencesResponse{CoursesTaken: "COSC 1437"}, nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, path string, route string, h gin.HandlerFunc, body io.Reader, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	r := gin.New()
	r.Handle(method, route, h)
	r.ServeHTTP(w, req)
	return w
}

func multipartFile(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("创建表单文件失败: %v", err)
		}
		fw.Write(content)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_ListCourses_Success(t *testing.T) {
	mock := &mockCourseService{listResult: []model.Course{{ID: "c1", Code: "COSC 3340"}}}
	h := NewCourseHandler(mock)

	w := serve("GET", "/courses?status=planned&day=Mon", "/courses", h.ListCourses, nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.lastListReq == nil || mock.lastListReq.Status != "planned" || mock.lastListReq.Day != "Mon" {
		t.Errorf("查询参数未透传，实际=%+v", mock.lastListReq)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Errorf("expected total 1, got %v", data["total"])
	}
}

func TestCourseHandler_CreateCourse_Success(t *testing.T) {
	mock := &mockCourseService{createResult: &model.Course{ID: "c1", Code: "COSC 3320"}}
	h := NewCourseHandler(mock)

	w := serve("POST", "/courses", "/courses", h.CreateCourse, jsonBody(dto.CreateCourseRequest{Code: "COSC 3320"}), "application/json")

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCourseHandler_CreateCourse_BadJSON(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	w := serve("POST", "/courses", "/courses", h.CreateCourse, strings.NewReader("{invalid"), "application/json")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestCourseHandler_CreateCourse_ValidationFailed(t *testing.T) {
	mock := &mockCourseService{createErr: fmt.Errorf("%w: code 不满足 required", service.ErrValidationFailed)}
	h := NewCourseHandler(mock)

	w := serve("POST", "/courses", "/courses", h.CreateCourse, jsonBody(dto.CreateCourseRequest{}), "application/json")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12002 {
		t.Errorf("expected error code 12002, got %d", resp.Code)
	}
	if resp.Details != "code 不满足 required" {
		t.Errorf("expected validation details, got %q", resp.Details)
	}
}

func TestCourseHandler_UpdateCourse_NotFound(t *testing.T) {
	mock := &mockCourseService{updateErr: service.ErrCourseNotFound}
	h := NewCourseHandler(mock)

	w := serve("PUT", "/courses/missing", "/courses/:id", h.UpdateCourse, jsonBody(map[string]int{"credits": 4}), "application/json")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

func TestCourseHandler_DeleteCourse_Success(t *testing.T) {
	mock := &mockCourseService{}
	h := NewCourseHandler(mock)

	w := serve("DELETE", "/courses/c1", "/courses/:id", h.DeleteCourse, nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.deletedID != "c1" {
		t.Errorf("expected id c1, got %s", mock.deletedID)
	}
}

func TestCourseHandler_TransportFailure(t *testing.T) {
	mock := &mockCourseService{listErr: fmt.Errorf("读取 courses 失败: %w: %w", pkgerrors.ErrTransport, errors.New("dial tcp"))}
	h := NewCourseHandler(mock)

	w := serve("GET", "/courses", "/courses", h.ListCourses, nil, "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 50001 {
		t.Errorf("expected error code 50001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UploadHandler Tests
// ═══════════════════════════════════════════════════════════

func newTestUploadHandler(mock *mockUploadService, maxSize int64) *UploadHandler {
	return NewUploadHandler(mock, &config.UploadConfig{MaxSize: maxSize, AllowedTypes: []string{"application/pdf"}})
}

func TestUploadHandler_UploadPDF_Success(t *testing.T) {
	mock := &mockUploadService{}
	h := newTestUploadHandler(mock, 1<<20)

	body, ct := multipartFile(t, "file", "transcript.PDF", samplePDF)
	w := serve("POST", "/uploads/pdf", "/uploads/pdf", h.UploadPDF, body, ct)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.registered == nil || mock.registered.Name != "transcript.PDF" || mock.registered.Size != int64(len(samplePDF)) {
		t.Errorf("登记参数不符，实际=%+v", mock.registered)
	}
	if mock.registered.ContentType != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", mock.registered.ContentType)
	}
}

func TestUploadHandler_UploadPDF_Rejected(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	cases := []struct {
		name     string
		field    string
		filename string
		content  []byte
		maxSize  int64
		status   int
		code     int
	}{
		{"缺少文件", "", "", nil, 1 << 20, http.StatusBadRequest, 10001},
		{"扩展名不是 pdf", "file", "notes.txt", samplePDF, 1 << 20, http.StatusBadRequest, 13001},
		{"内容不是 pdf", "file", "fake.pdf", pngHeader, 1 << 20, http.StatusBadRequest, 13001},
		{"超过大小限制", "file", "big.pdf", samplePDF, 8, http.StatusRequestEntityTooLarge, 13002},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockUploadService{}
			h := newTestUploadHandler(mock, tc.maxSize)

			body, ct := multipartFile(t, tc.field, tc.filename, tc.content)
			w := serve("POST", "/uploads/pdf", "/uploads/pdf", h.UploadPDF, body, ct)

			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tc.code {
				t.Errorf("expected error code %d, got %d", tc.code, resp.Code)
			}
			if mock.registered != nil {
				t.Error("被拒绝的文件不应登记")
			}
		})
	}
}

func TestUploadHandler_ListUploads(t *testing.T) {
	mock := &mockUploadService{listResult: []model.UploadRecord{{ID: "u1"}, {ID: "u2"}}}
	h := newTestUploadHandler(mock, 1<<20)

	w := serve("GET", "/uploads", "/uploads", h.ListUploads, nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", data["total"])
	}
}

// ═══════════════════════════════════════════════════════════
// ChatHandler Tests
// ═══════════════════════════════════════════════════════════

func TestChatHandler_Send_Success(t *testing.T) {
	mock := &mockChatService{sendResult: &dto.ChatResponse{Reply: "Hello!", Rule: "greeting"}}
	h := NewChatHandler(mock)

	w := serve("POST", "/chat", "/chat", h.Send, jsonBody(dto.ChatRequest{Text: "hi"}), "application/json")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["reply"] != "Hello!" {
		t.Errorf("expected reply Hello!, got %v", data["reply"])
	}
}

func TestChatHandler_Send_EmptyText(t *testing.T) {
	tests := []struct {
		name string
		body io.Reader
	}{
		{"text 为空", jsonBody(dto.ChatRequest{})},
		{"请求体为空", bytes.NewReader(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockChatService{sendResult: &dto.ChatResponse{Reply: "Got it!", Rule: "default"}}
			h := NewChatHandler(mock)

			w := serve("POST", "/chat", "/chat", h.Send, tt.body, "application/json")

			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
			if mock.sent == nil || mock.sent.Text != "" {
				t.Errorf("expected empty text forwarded to service, got %+v", mock.sent)
			}
			if data := parseResponse(w).Data.(map[string]interface{}); data["rule"] != "default" {
				t.Errorf("expected default rule, got %v", data["rule"])
			}
		})
	}
}

func TestChatHandler_History(t *testing.T) {
	mock := &mockChatService{historyResult: []model.ChatMessage{{From: model.FromUser, Text: "hi"}}}
	h := NewChatHandler(mock)

	w := serve("GET", "/chat/history", "/chat/history", h.History, nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_Build_EmptyBodyUsesStored(t *testing.T) {
	mock := &mockScheduleService{buildResult: model.NewWeeklySchedule("note")}
	h := NewScheduleHandler(mock, &mockExportService{})

	w := serve("POST", "/schedule/build", "/schedule/build", h.Build, nil, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.lastReq == nil || mock.lastReq.Courses != nil {
		t.Errorf("空请求体应使用已保存课程，实际=%+v", mock.lastReq)
	}
}

func TestScheduleHandler_Build_WithPayload(t *testing.T) {
	mock := &mockScheduleService{buildResult: model.NewWeeklySchedule("note")}
	h := NewScheduleHandler(mock, &mockExportService{})

	body := `{"courses":[],"pdfIds":["p1"],"chatSessionId":"s1"}`
	w := serve("POST", "/schedule/build", "/schedule/build", h.Build, strings.NewReader(body), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastReq.Courses == nil || len(mock.lastReq.Courses) != 0 {
		t.Errorf("显式空列表应原样传递，实际=%+v", mock.lastReq.Courses)
	}
	if mock.lastReq.ChatSessionID != "s1" || len(mock.lastReq.PDFIDs) != 1 {
		t.Errorf("pdfIds/chatSessionId 未透传，实际=%+v", mock.lastReq)
	}
}

func TestScheduleHandler_Build_BadJSON(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{}, &mockExportService{})

	w := serve("POST", "/schedule/build", "/schedule/build", h.Build, strings.NewReader("[1,"), "application/json")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestScheduleHandler_GetSchedule_NotBuilt(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{lastErr: service.ErrScheduleNotBuilt}, &mockExportService{})

	w := serve("GET", "/schedule", "/schedule", h.GetSchedule, nil, "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestScheduleHandler_ExportXLSX_Headers(t *testing.T) {
	export := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "schedule.xlsx"}
	h := NewScheduleHandler(&mockScheduleService{}, export)

	w := serve("GET", "/schedule/export.xlsx", "/schedule/export.xlsx", h.ExportXLSX, nil, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected Content-Type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "schedule.xlsx") {
		t.Errorf("unexpected Content-Disposition %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestScheduleHandler_ExportICS(t *testing.T) {
	export := &mockExportService{data: []byte("BEGIN:VCALENDAR"), filename: "schedule.ics"}
	h := NewScheduleHandler(&mockScheduleService{}, export)

	w := serve("GET", "/schedule/export.ics?weeks=4&start=2025-09-01", "/schedule/export.ics", h.ExportICS, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("unexpected Content-Type %s", w.Header().Get("Content-Type"))
	}

	w = serve("GET", "/schedule/export.ics?weeks=99", "/schedule/export.ics", h.ExportICS, nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("weeks 超出范围期望 400，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PlanHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPlanHandler_NormalizePreferences(t *testing.T) {
	pref := &mockPreferenceService{}
	h := NewPlanHandler(&mockPlanService{}, pref)

	w := serve("POST", "/nlp/preferences", "/nlp/preferences", h.NormalizePreferences, strings.NewReader(`{"text":" COSC 1437 "}`), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if string(pref.lastRaw) != `" COSC 1437 "` {
		t.Errorf("text 应原样传给 Service，实际=%s", pref.lastRaw)
	}
}

func TestPlanHandler_NormalizePreferences_Invalid(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{}, &mockPreferenceService{err: service.ErrPreferencesInvalidInput})

	w := serve("POST", "/nlp/preferences", "/nlp/preferences", h.NormalizePreferences, strings.NewReader(`{"text":42}`), "application/json")

	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 16002 {
		t.Errorf("expected 400/16002, got %d/%d", w.Code, resp.Code)
	}
}

func TestPlanHandler_DegreePlan_Unsupported(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{degreeErr: service.ErrMajorNotSupported}, &mockPreferenceService{})

	w := serve("GET", "/plans/degree?major=Art", "/plans/degree", h.DegreePlan, nil, "")

	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 16001 {
		t.Errorf("expected 400/16001, got %d/%d", w.Code, resp.Code)
	}
}

func TestPlanHandler_Prerequisites_MissingCode(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{}, &mockPreferenceService{})

	w := serve("GET", "/plans/prerequisites", "/plans/prerequisites", h.Prerequisites, nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w = serve("GET", "/plans/prerequisites?code=COSC+3340", "/plans/prerequisites", h.Prerequisites, nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestPlanHandler_Check(t *testing.T) {
	mock := &mockPlanService{checkResult: &dto.PrerequisiteCheckResponse{Satisfied: true, Issues: []dto.PrerequisiteIssue{}}}
	h := NewPlanHandler(mock, &mockPreferenceService{})

	w := serve("GET", "/plans/check", "/plans/check", h.Check, nil, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
