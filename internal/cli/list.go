package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/output"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processed sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())
			videosDir := deps.App.Config.Paths.Videos

			entries, err := os.ReadDir(videosDir)
			if err != nil && !os.IsNotExist(err) {
				return err
			}

			var dirs []string
			for _, e := range entries {
				if e.IsDir() && e.Name()[0] != '.' {
					dirs = append(dirs, e.Name())
				}
			}
			sort.Strings(dirs)

			if len(dirs) == 0 {
				formatter.Info("No sources found")
			} else {
				formatter.SourceListHeader()
				for _, name := range dirs {
					cp := deps.App.Store.Load(filepath.Join(videosDir, name))
					formatter.SourceListItem(name, cp.Completed, cp.Transcribed, cp.SummaryGenerated, cp.Degraded)
				}
			}

			if history <= 0 {
				return nil
			}
			runs, err := deps.App.Catalog.Recent(cmd.Context(), history)
			if err != nil {
				return err
			}
			formatter.HistoryHeader()
			for _, r := range runs {
				formatter.HistoryItem(r)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "also show the N most recent runs")

	return cmd
}
