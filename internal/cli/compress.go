package cli

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/media"
	"github.com/nguyentantai21042004/digest-flow/internal/output"
)

func NewCompressCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "compress [dir]",
		Short: "Convert WAV files to compact MP3",
		Long:  "Convert every .wav file under dir (default: the videos folder) to MP3 at the configured bitrate, deleting each WAV once converted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.App.Config
			dir := cfg.Paths.Videos
			if len(args) == 1 {
				dir = args[0]
			}

			report, err := media.CompressDir(cmd.Context(), deps.App.Transcoder, dir, cfg.Audio.Bitrate, cfg.Audio.SampleRate, deps.App.Logger)
			output.NewFormatter(cmd.OutOrStdout()).CompressReport(report)
			return err
		},
	}
}
