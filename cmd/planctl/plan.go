package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var major string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "查看四年培养方案",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.api.DegreePlan(cmd.Context(), major)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				fmt.Fprintf(w, "%s（预计毕业 %s）\n", p.Major, p.EstimatedGraduation)
				for _, t := range p.Plan {
					fmt.Fprintf(w, "  Year %d  %-12s %s\n", t.Year, t.Term, strings.Join(t.Courses, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&major, "major", "Computer Science", "专业")

	prereq := &cobra.Command{
		Use:   "prereq <code>",
		Short: "查询课程先修要求",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.Prerequisites(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				if len(p.Prerequisites) == 0 {
					_, err := fmt.Fprintf(w, "%s 无先修要求\n", p.Code)
					return err
				}
				_, err := fmt.Fprintf(w, "%s 先修: %s\n", p.Code, strings.Join(p.Prerequisites, ", "))
				return err
			})
		},
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "检查计划课程的先修是否满足",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.api.CheckPlan(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), r, func(w io.Writer) error {
				if r.Satisfied {
					_, err := fmt.Fprintln(w, "所有计划课程的先修均已满足")
					return err
				}
				for _, is := range r.Issues {
					fmt.Fprintf(w, "%s %s 缺少: %s\n", is.Code, is.Title, strings.Join(is.Missing, ", "))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(prereq, check)
	return cmd
}
