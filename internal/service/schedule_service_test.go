package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
	pkgerrors "course-planner/backend/pkg/errors"
)

func setupTestScheduleService(repo *repository.Repository) *scheduleService {
	svc := NewScheduleService(repo, zap.NewNop()).(*scheduleService)
	svc.now = fixedNow
	return svc
}

// ── Build 测试 ──

func TestScheduleService_Build_UsesStoredCoursesWhenOmitted(t *testing.T) {
	svc := setupTestScheduleService(newSeededRepo(t))

	got, err := svc.Build(context.Background(), &dto.BuildScheduleRequest{})
	if err != nil {
		t.Fatalf("Build 应成功: %v", err)
	}
	if got.Len() != 3 {
		t.Errorf("期望 3 条排课，实际=%d", got.Len())
	}
	if len(got.Week["Fri"]) != 1 || got.Week["Fri"][0].Code != "COSC 4351" {
		t.Errorf("期望周五排 COSC 4351，实际=%+v", got.Week["Fri"])
	}
	if got.GeneratedAt == nil || !got.GeneratedAt.Equal(fixedNow()) {
		t.Errorf("期望 GeneratedAt=%v，实际=%v", fixedNow(), got.GeneratedAt)
	}
}

func TestScheduleService_Build_ExplicitEmptyList(t *testing.T) {
	svc := setupTestScheduleService(newSeededRepo(t))

	got, err := svc.Build(context.Background(), &dto.BuildScheduleRequest{Courses: []model.Course{}})
	if err != nil {
		t.Fatalf("Build 应成功: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("显式空列表应生成空课表，实际=%d", got.Len())
	}
	if len(got.Week) != 5 {
		t.Errorf("期望五个工作日均存在，实际=%d", len(got.Week))
	}
}

func TestScheduleService_Build_EchoesPayloadAndPersists(t *testing.T) {
	svc := setupTestScheduleService(newTestRepo())
	req := &dto.BuildScheduleRequest{
		Courses:       []model.Course{{Code: "A", Title: "Alpha", Status: model.StatusPlanned}},
		PDFIDs:        []string{"pdf-1"},
		ChatSessionID: "session-1",
	}

	built, err := svc.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build 应成功: %v", err)
	}

	last, err := svc.Last(context.Background())
	if err != nil {
		t.Fatalf("Last 应成功: %v", err)
	}
	if last.ChatSessionID != "session-1" || len(last.PDFIDs) != 1 || last.PDFIDs[0] != "pdf-1" {
		t.Errorf("期望回显 pdfIds/chatSessionId，实际=%+v", last)
	}
	if len(last.Week["Mon"]) != 1 || last.Week["Mon"][0] != built.Week["Mon"][0] {
		t.Errorf("持久化课表与返回值不一致，实际=%+v", last.Week)
	}
}

func TestScheduleService_Build_Overwrites(t *testing.T) {
	svc := setupTestScheduleService(newTestRepo())
	ctx := context.Background()

	_, _ = svc.Build(ctx, &dto.BuildScheduleRequest{Courses: []model.Course{{Code: "A"}, {Code: "B"}}})
	_, _ = svc.Build(ctx, &dto.BuildScheduleRequest{Courses: []model.Course{{Code: "C"}}})

	last, err := svc.Last(ctx)
	if err != nil {
		t.Fatalf("Last 应成功: %v", err)
	}
	if last.Len() != 1 || last.Week["Mon"][0].Code != "C" {
		t.Errorf("期望仅保留最近一次课表，实际=%+v", last.Week)
	}
}

func TestScheduleService_Build_TransportFailure(t *testing.T) {
	svc := setupTestScheduleService(newDownRepo())

	_, err := svc.BuildStored(context.Background())
	if !errors.Is(err, pkgerrors.ErrTransport) {
		t.Errorf("期望 ErrTransport，实际: %v", err)
	}
}

// ── Last 测试 ──

func TestScheduleService_Last_NotBuilt(t *testing.T) {
	svc := setupTestScheduleService(newTestRepo())

	_, err := svc.Last(context.Background())
	if !errors.Is(err, ErrScheduleNotBuilt) {
		t.Errorf("期望 ErrScheduleNotBuilt，实际: %v", err)
	}
}
