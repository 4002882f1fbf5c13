package cli

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/output"
)

func runProcess(cmd *cobra.Command, deps *Dependencies, url string) error {
	formatter := output.NewFormatter(cmd.OutOrStdout())

	res, err := deps.App.Pipeline.Process(cmd.Context(), url)
	if res.Folder != "" || len(res.Outcomes) > 0 {
		formatter.RunReport(res)
	}
	return err
}
