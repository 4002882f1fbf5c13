package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())
			a := deps.App
			cfg := a.Config
			ok := true

			if a.Executor.LookPath(cfg.Download.Binary) {
				f.SetupCheck(cfg.Download.Binary, true, "installed")
			} else {
				f.SetupCheck(cfg.Download.Binary, false, "not found. Downloads will fail")
				ok = false
			}

			if a.Executor.LookPath(cfg.Audio.FFmpegBinary) {
				f.SetupCheck(cfg.Audio.FFmpegBinary, true, "installed")
			} else {
				f.SetupCheck(cfg.Audio.FFmpegBinary, false, "not found. Silence removal will copy audio through")
				ok = false
			}

			f.SetupCheck("Silence removal", true, a.Remover.Name())

			if a.Transcriber.Name() != "none" {
				f.SetupCheck("Transcription", true, a.Transcriber.Name())
			} else {
				f.SetupCheck("Transcription", false, "no engine found. Runs will complete without transcripts")
				ok = false
			}

			if cfg.ASR.ModelPath != "" {
				if _, err := os.Stat(cfg.ASR.ModelPath); err != nil {
					f.SetupCheck("Whisper model", false, cfg.ASR.ModelPath+" not found")
					ok = false
				} else {
					f.SetupCheck("Whisper model", true, cfg.ASR.ModelPath)
				}
			}

			if n := len(cfg.Summary.Gemini.APIKeys); n > 0 {
				f.SetupCheck("Gemini overview", true, fmt.Sprintf("%d API key(s) configured", n))
			} else {
				f.SetupCheck("Gemini overview", true, "off (set GEMINI_API_KEYS to enable)")
			}

			f.SetupCheck("Videos directory", true, cfg.Paths.Videos)

			if ok {
				f.Success("All prerequisites met. Ready to digest!")
			} else {
				f.Warning("Some prerequisites are missing.")
			}
			return nil
		},
	}
}
