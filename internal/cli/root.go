package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/digest-flow/internal/app"
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/version"
)

const defaultConfigFile = "config.yaml"

// Dependencies are built lazily, once flags are parsed
type Dependencies struct {
	ConfigPath string
	Verbose    bool
	App        *app.App
}

func (d *Dependencies) init() error {
	if d.App != nil {
		return nil
	}

	path := d.ConfigPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if d.Verbose {
		level = "debug"
	}

	a, err := app.New(cfg, logger.New(level))
	if err != nil {
		return err
	}
	d.App = a
	return nil
}

// Close releases what init opened
func (d *Dependencies) Close() {
	if d.App != nil {
		d.App.Close()
	}
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "digest <url>",
		Short: "Download, trim, transcribe and summarize long-form audio",
		Long: "digest downloads the audio of a URL, removes silence, transcribes it and writes a highlight summary.\n" +
			"Progress is checkpointed after every stage; run the same command again to resume.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, deps, args[0])
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "config file (.yaml or .toml, default ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&deps.Verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewCompressCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
