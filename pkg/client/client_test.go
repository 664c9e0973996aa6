package client

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-planner/backend/config"
	"course-planner/backend/internal/api/handler"
	"course-planner/backend/internal/api/router"
	"course-planner/backend/internal/chat"
	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
	"course-planner/backend/internal/service"
	"course-planner/backend/internal/store"
	pkgerrors "course-planner/backend/pkg/errors"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

// newTestServer 基于真实路由与内存存储启动服务端
func newTestServer(t *testing.T, seed bool) *Client {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20},
		Upload: config.UploadConfig{MaxSize: 1 << 20, AllowedTypes: []string{"application/pdf"}},
	}
	logger := zap.NewNop()

	st := store.New(store.NewMemoryDriver(), logger)
	if seed {
		require.NoError(t, st.Seed(testContext(t), store.DemoCourses()))
	}
	svc := service.NewService(repository.NewRepository(st), chat.DefaultRules(), logger)
	srv := httptest.NewServer(router.Setup(cfg, handler.NewHandler(cfg, svc), nil, logger))

	c := New(srv.URL, 5*time.Second)
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c
}

func writePDF(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestClient_Health(t *testing.T) {
	c := newTestServer(t, false)
	assert.NoError(t, c.Health(testContext(t)))
}

func TestClient_CourseCRUD(t *testing.T) {
	c := newTestServer(t, false)
	ctx := testContext(t)

	list, err := c.ListCourses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := c.CreateCourse(ctx, &dto.CreateCourseRequest{
		Code: "COSC 3320", Title: "Algorithms", Credits: 3, Term: "Fall 2025",
		Prefs: model.Prefs{Days: []string{"Wed"}, TimeOfDay: model.TimeEvening},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusPlanned, created.Status)

	title := "Algorithms II"
	updated, err := c.UpdateCourse(ctx, created.ID, &dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms II", updated.Title)
	assert.Equal(t, "COSC 3320", updated.Code)
	assert.Equal(t, []string{"Wed"}, updated.Prefs.Days)

	list, err = c.ListCourses(ctx, &dto.CourseListRequest{Day: "Wed"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteCourse(ctx, created.ID))
	require.NoError(t, c.DeleteCourse(ctx, created.ID), "重复删除应幂等")

	list, err = c.ListCourses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_ErrorMapping(t *testing.T) {
	c := newTestServer(t, false)
	ctx := testContext(t)

	_, err := c.CreateCourse(ctx, &dto.CreateCourseRequest{Title: "no code"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 12002, apiErr.Code)
	assert.NotEmpty(t, apiErr.Details)
	assert.ErrorIs(t, err, ErrRejected)

	title := "x"
	_, err = c.UpdateCourse(ctx, "missing", &dto.UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Schedule(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	defer c.Close()

	_, err := c.ListCourses(testContext(t), nil)
	assert.ErrorIs(t, err, pkgerrors.ErrTransport)
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":50001,"message":"存储不可用"}`))
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second)
	defer c.Close()

	err := c.DeleteCourse(testContext(t), "any")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 50001, apiErr.Code)
	assert.ErrorIs(t, err, pkgerrors.ErrTransport)
}

func TestClient_ChatBuildsSchedule(t *testing.T) {
	c := newTestServer(t, true)
	ctx := testContext(t)

	resp, err := c.Chat(ctx, "please build my schedule")
	require.NoError(t, err)
	assert.Equal(t, "build_schedule", resp.Rule)
	require.NotNil(t, resp.Schedule)
	assert.Equal(t, 3, resp.Schedule.Len())

	got, err := c.Schedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	history, err := c.ChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.FromUser, history[0].From)
	assert.Equal(t, model.FromBot, history[1].From)
}

func TestClient_BuildScheduleWithCourses(t *testing.T) {
	c := newTestServer(t, true)

	got, err := c.BuildSchedule(testContext(t), &dto.BuildScheduleRequest{
		Courses: []model.Course{{Code: "X", Title: "X title", Status: model.StatusPlanned}},
		PDFIDs:  []string{"p1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "X", got.Week["Mon"][0].Code)
	assert.Equal(t, []string{"p1"}, got.PDFIDs)
}

func TestClient_Upload(t *testing.T) {
	c := newTestServer(t, false)
	ctx := testContext(t)

	path := writePDF(t, "transcript.pdf", samplePDF)
	require.NoError(t, CheckPDF(path, 1<<20))

	rec, err := c.UploadPDF(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "transcript.pdf", rec.Name)
	assert.Equal(t, int64(len(samplePDF)), rec.Size)

	list, err := c.ListUploads(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
}

func TestClient_Plans(t *testing.T) {
	c := newTestServer(t, true)
	ctx := testContext(t)

	plan, err := c.DegreePlan(ctx, "cs")
	require.NoError(t, err)
	assert.Len(t, plan.Plan, 8)

	_, err = c.DegreePlan(ctx, "biology")
	assert.ErrorIs(t, err, ErrRejected)

	pre, err := c.Prerequisites(ctx, "cosc  3360")
	require.NoError(t, err)
	assert.Equal(t, "COSC 3360", pre.Code)

	check, err := c.CheckPlan(ctx)
	require.NoError(t, err)
	assert.NotNil(t, check)
}

func TestCheckPDF(t *testing.T) {
	pdf := writePDF(t, "a.pdf", samplePDF)
	fake := writePDF(t, "fake.pdf", []byte("just some text"))
	txt := writePDF(t, "notes.txt", samplePDF)

	assert.NoError(t, CheckPDF(pdf, 0))
	assert.ErrorIs(t, CheckPDF(txt, 0), ErrNotPDF)
	assert.ErrorIs(t, CheckPDF(fake, 0), ErrNotPDF)
	assert.ErrorIs(t, CheckPDF(pdf, 8), ErrFileTooLarge)
	assert.ErrorIs(t, CheckPDF(filepath.Join(t.TempDir(), "missing.pdf"), 0), os.ErrNotExist)
}
