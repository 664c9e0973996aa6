package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"course-planner/backend/pkg/client"
)

func newUploadCmd(a *app) *cobra.Command {
	var maxSize int64
	var list bool
	cmd := &cobra.Command{
		Use:   "upload [file.pdf]",
		Short: "上传 PDF（本地先校验扩展名、大小与内容），或用 --list 查看记录",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				recs, err := a.api.ListUploads(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), recs, func(w io.Writer) error {
					for _, r := range recs {
						fmt.Fprintf(w, "%s  %s  %d bytes\n", r.ID, r.Name, r.Size)
					}
					return nil
				})
			}

			if len(args) == 0 {
				return fmt.Errorf("需要文件路径")
			}
			if err := client.CheckPDF(args[0], maxSize); err != nil {
				return err
			}
			rec, err := a.api.UploadPDF(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rec, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "已登记 %s (%s, %d bytes)\n", rec.ID, rec.Name, rec.Size)
				return err
			})
		},
	}
	cmd.Flags().Int64Var(&maxSize, "max-size", 5<<20, "本地大小上限（字节）")
	cmd.Flags().BoolVar(&list, "list", false, "列出已登记的上传")
	return cmd
}
