package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/output"
	"github.com/nguyentantai21042004/digest-flow/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process URLs dropped into the inbox folder",
		Long:  "Watch the inbox folder for .url or .txt files holding one URL per line.\nHandled files are renamed to .done (or .failed). Ctrl+C stops after saving progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.App.Config
			log := deps.App.Logger
			formatter := output.NewFormatter(cmd.OutOrStdout())

			if err := os.MkdirAll(cfg.Paths.Inbox, 0755); err != nil {
				return fmt.Errorf("create inbox: %w", err)
			}

			handler := func(ctx context.Context, url string) error {
				res, err := deps.App.Pipeline.Process(ctx, url)
				if res.Folder != "" {
					formatter.RunReport(res)
				}
				return err
			}

			w, err := watcher.New(cfg.Paths.Inbox, handler, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			formatter.Info("Watching " + cfg.Paths.Inbox + " (Ctrl+C to stop)")
			if err := w.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
