package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"course-planner/backend/pkg/client"
)

// 输出格式
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// app 子命令共享的运行时状态
type app struct {
	server  string
	timeout time.Duration
	output  string

	api *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "planctl",
		Short:         "课程规划后端命令行客户端",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch a.output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("未知的输出格式 %q", a.output)
			}
			a.api = client.New(a.server, a.timeout)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.api != nil {
				a.api.Close()
			}
		},
	}

	server := os.Getenv("PLANNER_SERVER")
	if server == "" {
		server = "http://localhost:8000"
	}
	root.PersistentFlags().StringVarP(&a.server, "server", "s", server, "服务端地址（或设置 PLANNER_SERVER）")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "单次请求超时")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "输出格式: table | json | yaml")

	root.AddCommand(
		newCoursesCmd(a),
		newChatCmd(a),
		newScheduleCmd(a),
		newUploadCmd(a),
		newPlanCmd(a),
	)
	return root
}

// render json/yaml 直接序列化；table 交给调用方的 table 函数
func (a *app) render(w io.Writer, v interface{}, table func(io.Writer) error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return table(w)
	}
}
