package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "chat [text...]",
		Short: "发送聊天消息，或用 --history 查看记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			if history {
				msgs, err := a.api.ChatHistory(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), msgs, func(w io.Writer) error {
					for _, m := range msgs {
						fmt.Fprintf(w, "[%s] %s: %s\n", m.At.Local().Format("2006-01-02 15:04"), m.From, m.Text)
					}
					return nil
				})
			}

			if len(args) == 0 {
				return fmt.Errorf("需要消息内容")
			}
			resp, err := a.api.Chat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				fmt.Fprintln(w, resp.Reply)
				if resp.Schedule != nil {
					fmt.Fprintln(w)
					return writeSchedule(w, resp.Schedule)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "显示聊天记录")
	return cmd
}
