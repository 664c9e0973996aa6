// Package chat 实现基于关键词的脚本化回复。
//
// 这不是自然语言理解：规则按顺序做大小写无关的子串匹配，首条命中即返回。
// 规则表可以来自内置默认值，也可以从 YAML 文件加载。
package chat

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActionBuildSchedule 命中后基于已保存课程生成课表
const ActionBuildSchedule = "build_schedule"

// DefaultRuleName 未命中任何规则时返回的规则名
const DefaultRuleName = "default"

// Rule 单条匹配规则
//
// 命中条件：AllOf 全部出现，且 AnyOf 为空或至少出现一个。
type Rule struct {
	Name   string   `yaml:"name"`
	AnyOf  []string `yaml:"any_of,omitempty"`
	AllOf  []string `yaml:"all_of,omitempty"`
	Reply  string   `yaml:"reply"`
	Action string   `yaml:"action,omitempty"`
}

// RuleSet 有序规则表
type RuleSet struct {
	Rules   []Rule `yaml:"rules"`
	Default string `yaml:"default"`
}

// Matches 对已转小写的文本判断是否命中
func (r *Rule) Matches(lower string) bool {
	for _, term := range r.AllOf {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, term := range r.AnyOf {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Match 返回第一条命中的规则；全部未命中时返回默认回复规则
func (rs *RuleSet) Match(text string) Rule {
	lower := strings.ToLower(text)
	for _, r := range rs.Rules {
		if r.Matches(lower) {
			return r
		}
	}
	return Rule{Name: DefaultRuleName, Reply: rs.Default}
}

// Validate 每条规则必须有回复和至少一个关键词
func (rs *RuleSet) Validate() error {
	if strings.TrimSpace(rs.Default) == "" {
		return errors.New("规则表缺少 default 回复")
	}
	for i, r := range rs.Rules {
		if r.Reply == "" {
			return fmt.Errorf("第 %d 条规则 %q 缺少 reply", i+1, r.Name)
		}
		if len(r.AnyOf) == 0 && len(r.AllOf) == 0 {
			return fmt.Errorf("第 %d 条规则 %q 没有关键词", i+1, r.Name)
		}
	}
	return nil
}

// LoadRules 从 YAML 文件加载规则表
func LoadRules(path string) (*RuleSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取规则文件失败: %w", err)
	}
	return ParseRules(b)
}

// ParseRules 解析 YAML 规则表并校验
func ParseRules(b []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("解析规则文件失败: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// DefaultRules 内置演示规则表
func DefaultRules() *RuleSet {
	return &RuleSet{
		Rules: []Rule{
			{
				Name:  "greeting",
				AnyOf: []string{"hi", "hello"},
				Reply: "Hello! Share your completed classes (e.g., COSC 1437, COSC 2436) and I’ll suggest next courses.",
			},
			{
				Name:  "recommend",
				AllOf: []string{"1437", "2436"},
				Reply: strings.Join([]string{
					"Great! Based on COSC 1437 & COSC 2436, here are solid next picks:",
					"• COSC 3340 — Automata & Computability",
					"• COSC 3360 — Database Systems",
					"• COSC 4351 — Fundamentals of Software Engineering",
					"Say: `switch 3340` if you’d like an alternative.",
				}, "\n"),
			},
			{
				Name:  "switch",
				AllOf: []string{"switch", "3340"},
				Reply: "You can swap COSC 3340 with COSC 3320 — Algorithms & Data Structures II. You meet the prereqs and it’s offered next term.",
			},
			{
				Name:   "build_schedule",
				AnyOf:  []string{"make me a schedule", "build my schedule"},
				Reply:  "Done! I generated your schedule. Open the Schedule page.",
				Action: ActionBuildSchedule,
			},
		},
		Default: "Got it! (mock reply). You can also say: `make me a schedule` to see the demo.",
	}
}
