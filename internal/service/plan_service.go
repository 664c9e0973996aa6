package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
)

// ── 学业规划模块业务错误 ──

var ErrMajorNotSupported = errors.New("暂不支持该专业的培养方案")

const (
	defaultMajor     = "Computer Science"
	planTermsToGrad  = 8
	monthsPerTerm    = 4
	daysPerPlanMonth = 30
)

// degreeTerm 培养方案中的一个学期（相对年份）
type degreeTerm struct {
	year    int
	term    string
	courses []string
}

// cosPlan UH 计算机科学本科四年培养方案（2023-2024）
var cosPlan = []degreeTerm{
	{1, "Fall", []string{"COSC 1336", "MATH 2413", "ENGL 1301", "CORE US History", "CORE Language/Philosophy/Culture"}},
	{1, "Spring", []string{"COSC 1437", "MATH 2414", "ENGL 1302", "CORE US History", "CORE Elective"}},
	{2, "Fall", []string{"COSC 2425", "MATH 2305", "GOVT 2305", "Creative Arts", "NSM Science Lecture"}},
	{2, "Spring", []string{"COSC 2436", "GOVT 2306", "MATH 2318/3321", "NSM Science Lecture", "Social & Behavioral Science"}},
	{3, "Fall", []string{"COSC 3320", "COSC 3340", "MATH 3339", "CORE Writing in the Disciplines", "NSM Science Lecture+Lab"}},
	{3, "Spring", []string{"COSC 3360", "COSC 3380", "Capstone/Free Elective", "NSM Science Lecture+Lab"}},
	{4, "Fall", []string{"COSC XXXX (Advanced Elective)", "COSC XXXX (Advanced Elective)", "COSC 4351/4353 (Software Eng/Design)", "Capstone/Free Elective"}},
	{4, "Spring", []string{"COSC XXXX (Advanced Elective)", "COSC XXXX (Advanced Elective)", "Capstone/Free Elective"}},
}

// prerequisites 主要 COSC 课程的简化先修关系
var prerequisites = map[string][]string{
	"COSC 1437": {"COSC 1336"},
	"COSC 2425": {"COSC 1437"},
	"COSC 2436": {"COSC 2425"},
	"COSC 3320": {"COSC 2436"},
	"COSC 3340": {"COSC 2436", "MATH 2305"},
	"COSC 3360": {"COSC 2436"},
	"COSC 4351": {"COSC 3320", "COSC 3360"},
	"COSC 4353": {"COSC 3320", "COSC 3360"},
}

// PlanService 学业规划业务接口
type PlanService interface {
	DegreePlan(ctx context.Context, major string) (*dto.DegreePlanResponse, error)
	Prerequisites(code string) *dto.PrerequisiteResponse
	// Check 检查每门计划课程的先修课是否都已修完
	Check(ctx context.Context) (*dto.PrerequisiteCheckResponse, error)
}

type planService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── DegreePlan ──────────────────────

func (s *planService) DegreePlan(_ context.Context, major string) (*dto.DegreePlanResponse, error) {
	major = strings.TrimSpace(major)
	if major == "" {
		major = defaultMajor
	}
	switch strings.ToLower(major) {
	case "computer science", "cs", "cosc":
	default:
		return nil, fmt.Errorf("%w: %s", ErrMajorNotSupported, major)
	}

	now := s.now()
	startYear := now.Year()
	terms := make([]dto.PlanTerm, 0, len(cosPlan))
	for _, t := range cosPlan {
		terms = append(terms, dto.PlanTerm{
			Year:    t.year,
			Term:    fmt.Sprintf("%s %d", t.term, startYear+t.year-1),
			Courses: append([]string(nil), t.courses...),
		})
	}

	return &dto.DegreePlanResponse{
		Major:               major,
		Plan:                terms,
		EstimatedGraduation: EstimateGraduation(now, planTermsToGrad),
	}, nil
}

// EstimateGraduation 每学期按 4 个月、每月按 30 天粗略估算
func EstimateGraduation(from time.Time, terms int) string {
	return from.AddDate(0, 0, terms*monthsPerTerm*daysPerPlanMonth).Format("January 2006")
}

// ────────────────────── Prerequisites ──────────────────────

func (s *planService) Prerequisites(code string) *dto.PrerequisiteResponse {
	key := normalizeCode(code)
	reqs := append([]string{}, prerequisites[key]...)
	return &dto.PrerequisiteResponse{Code: key, Prerequisites: reqs}
}

// ────────────────────── Check ──────────────────────

func (s *planService) Check(ctx context.Context) (*dto.PrerequisiteCheckResponse, error) {
	courses, err := s.repo.Course.List(ctx, repository.CourseFilter{})
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	completed := make(map[string]bool)
	for _, c := range courses {
		if c.Status == model.StatusCompleted {
			completed[normalizeCode(c.Code)] = true
		}
	}

	resp := &dto.PrerequisiteCheckResponse{Satisfied: true, Issues: []dto.PrerequisiteIssue{}}
	for _, c := range courses {
		if !c.IsPlanned() {
			continue
		}
		var missing []string
		for _, p := range prerequisites[normalizeCode(c.Code)] {
			if !completed[p] {
				missing = append(missing, p)
			}
		}
		if len(missing) > 0 {
			resp.Satisfied = false
			resp.Issues = append(resp.Issues, dto.PrerequisiteIssue{
				CourseID: c.ID,
				Code:     c.Code,
				Title:    c.Title,
				Missing:  missing,
			})
		}
	}
	return resp, nil
}

// normalizeCode "cosc  3340" → "COSC 3340"
func normalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}
