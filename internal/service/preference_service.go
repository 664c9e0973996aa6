package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
)

// ── 偏好归一化业务错误 ──

var ErrPreferencesInvalidInput = errors.New("text 必须是字符串、对象或 null")

// PreferenceService 把自由文本或部分结构化数据整理为统一的学生信息结构
type PreferenceService interface {
	Normalize(raw json.RawMessage) (*dto.PreferencesResponse, error)
}

type preferenceService struct {
	logger *zap.Logger
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(logger *zap.Logger) PreferenceService {
	return &preferenceService{logger: logger}
}

func defaultPreferences() map[string]interface{} {
	return map[string]interface{}{
		"wantsSummerClasses":   false,
		"wantsSpecificCourses": false,
	}
}

// Normalize
//   - null / 缺省：全部字段为 null，preferences 为默认值
//   - 字符串：去掉首尾空白后放入 courses_taken
//   - 对象：只复制已知字段，其余忽略
func (s *preferenceService) Normalize(raw json.RawMessage) (*dto.PreferencesResponse, error) {
	out := &dto.PreferencesResponse{Preferences: defaultPreferences()}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, ErrPreferencesInvalidInput
		}
		out.CoursesTaken = strings.TrimSpace(text)
	case '{':
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, ErrPreferencesInvalidInput
		}
		if v, ok := fields["major"]; ok {
			out.Major = v
		}
		if v, ok := fields["minor"]; ok {
			out.Minor = v
		}
		if v, ok := fields["courses_taken"]; ok {
			out.CoursesTaken = v
		}
		if v, ok := fields["target_graduation"]; ok {
			out.TargetGraduation = v
		}
		if v, ok := fields["preferences"]; ok {
			out.Preferences = v
		}
	default:
		s.logger.Debug("无法识别的偏好输入", zap.ByteString("raw", raw))
		return nil, ErrPreferencesInvalidInput
	}
	return out, nil
}
