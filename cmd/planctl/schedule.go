package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
)

func newScheduleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "生成与查看周课表",
	}

	var req dto.BuildScheduleRequest
	build := &cobra.Command{
		Use:   "build",
		Short: "用已保存的课程生成课表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.api.BuildSchedule(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), s, func(w io.Writer) error {
				return writeSchedule(w, s)
			})
		},
	}
	build.Flags().StringSliceVar(&req.PDFIDs, "pdf", nil, "关联的上传 ID")
	build.Flags().StringVar(&req.ChatSessionID, "session", "", "关联的聊天会话 ID")

	show := &cobra.Command{
		Use:   "show",
		Short: "显示最近一次生成的课表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.api.Schedule(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), s, func(w io.Writer) error {
				return writeSchedule(w, s)
			})
		},
	}

	cmd.AddCommand(build, show)
	return cmd
}

// writeSchedule 按周一至周五输出，空白日显示 "-"
func writeSchedule(w io.Writer, s *model.WeeklySchedule) error {
	for _, day := range model.Weekdays {
		entries := s.Week[day]
		if len(entries) == 0 {
			fmt.Fprintf(w, "%s  -\n", day)
			continue
		}
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			parts = append(parts, fmt.Sprintf("%s %s (%s)", e.Code, e.Title, e.Time))
		}
		fmt.Fprintf(w, "%s  %s\n", day, strings.Join(parts, "; "))
	}
	if s.Note != "" {
		fmt.Fprintln(w, s.Note)
	}
	return nil
}
