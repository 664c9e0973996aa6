package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/pkg/client"
)

func newCoursesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "查看与编辑课程",
	}
	cmd.AddCommand(
		newCoursesListCmd(a),
		newCoursesAddCmd(a),
		newCoursesUpdateCmd(a),
		newCoursesRemoveCmd(a),
	)
	return cmd
}

func newCoursesListCmd(a *app) *cobra.Command {
	var filter dto.CourseListRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出课程",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.api.ListCourses(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), list, func(w io.Writer) error {
				return writeCourses(w, list)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", "", "planned | completed")
	cmd.Flags().StringVar(&filter.Term, "term", "", "学期，如 \"Fall 2025\"")
	cmd.Flags().StringVar(&filter.Code, "code", "", "课程代码")
	cmd.Flags().StringVar(&filter.Day, "day", "", "偏好星期，如 Mon")
	return cmd
}

// courseFlags add 与 update 共用的字段
type courseFlags struct {
	code, title, term, status, grade string
	credits                          int
	days                             []string
	timeOfDay, modality              string
}

func (f *courseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "课程代码")
	cmd.Flags().StringVar(&f.title, "title", "", "课程名称")
	cmd.Flags().IntVar(&f.credits, "credits", 3, "学分")
	cmd.Flags().StringVar(&f.term, "term", "", "学期")
	cmd.Flags().StringVar(&f.status, "status", "", "planned | completed")
	cmd.Flags().StringVar(&f.grade, "grade", "", "成绩（completed 必填）")
	cmd.Flags().StringSliceVar(&f.days, "days", nil, "偏好星期，逗号分隔，如 Mon,Wed")
	cmd.Flags().StringVar(&f.timeOfDay, "time", "", "Any | Morning | Afternoon | Evening")
	cmd.Flags().StringVar(&f.modality, "modality", "", "Any | In-person | Online | Hybrid")
}

func (f *courseFlags) prefs() model.Prefs {
	days := f.days
	if days == nil {
		days = []string{}
	}
	return model.Prefs{Days: days, TimeOfDay: f.timeOfDay, Modality: f.modality}
}

func newCoursesAddCmd(a *app) *cobra.Command {
	var f courseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增课程",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board := client.NewBoard(a.api)
			c, err := board.Add(cmd.Context(), &dto.CreateCourseRequest{
				Code:    f.code,
				Title:   f.title,
				Credits: f.credits,
				Term:    f.term,
				Status:  f.status,
				Grade:   f.grade,
				Prefs:   f.prefs(),
			})
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				return writeCourses(w, []model.Course{*c})
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newCoursesUpdateCmd(a *app) *cobra.Command {
	var f courseFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "更新课程（只提交指定的字段）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := updateRequest(cmd, &f)
			board := client.NewBoard(a.api)
			if err := board.Load(cmd.Context()); err != nil {
				return err
			}
			c, err := board.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				return writeCourses(w, []model.Course{*c})
			})
		},
	}
	f.bind(cmd)
	return cmd
}

// updateRequest 仅包含命令行显式指定的字段；任一偏好参数出现时整体替换 prefs
func updateRequest(cmd *cobra.Command, f *courseFlags) *dto.UpdateCourseRequest {
	var req dto.UpdateCourseRequest
	flags := cmd.Flags()
	if flags.Changed("code") {
		req.Code = &f.code
	}
	if flags.Changed("title") {
		req.Title = &f.title
	}
	if flags.Changed("credits") {
		req.Credits = &f.credits
	}
	if flags.Changed("term") {
		req.Term = &f.term
	}
	if flags.Changed("status") {
		req.Status = &f.status
	}
	if flags.Changed("grade") {
		req.Grade = &f.grade
	}
	if flags.Changed("days") || flags.Changed("time") || flags.Changed("modality") {
		p := f.prefs()
		req.Prefs = &p
	}
	return &req
}

func newCoursesRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "删除课程（不存在时同样成功）",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board := client.NewBoard(a.api)
			if err := board.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已删除", args[0])
			return nil
		},
	}
}

func writeCourses(w io.Writer, list []model.Course) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tTITLE\tCREDITS\tTERM\tSTATUS\tGRADE\tDAYS\tTIME")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Code, c.Title, c.Credits, c.Term, c.Status,
			dash(c.Grade), dash(strings.Join(c.Prefs.Days, ",")), dash(c.Prefs.TimeOfDay))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
