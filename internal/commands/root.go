package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/quill"
	"github.com/simonhull/firebird-suite/quill/internal/config"
	"github.com/simonhull/firebird-suite/quill/logger"
	"github.com/simonhull/firebird-suite/quill/output"
)

// RootCmd creates and returns the root command for the quill CLI
func RootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Keep generated blocks in hand-written files up to date",
		Long: `quill rewrites the generated part of a source file, the lines between a
start marker and an end marker, and leaves everything else byte for byte.

Targets are listed in quill.yml. Each names a file, a template and the data
to render it with. Files are replaced atomically: a failed or interrupted
run never leaves a half-written file behind.

Examples:
  quill init                 # write a sample quill.yml
  quill regen --dry-run      # show what would change
  quill regen locales        # regenerate one target
  quill check                # fail if any block is stale (CI)
  quill scan src/            # find files with generated blocks`,
		Version:       quill.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Path to the quill manifest")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	cmd.AddCommand(
		RegenCmd(),
		CheckCmd(),
		StatusCmd(),
		ScanCmd(),
		InitCmd(),
		VersionCmd(),
	)
	return cmd
}

// Execute runs the CLI. Errors are printed here, once.
func Execute() error {
	err := RootCmd().Execute()
	if err != nil {
		output.Error(err.Error())
	}
	return err
}

// setup loads the manifest named by --config, or the nearest quill.yml when
// the flag is not given, and builds the logger it configures. --verbose
// forces debug logging.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if !cmd.Flags().Changed("config") {
		found, err := config.Find(".")
		if err != nil {
			return nil, nil, err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, cmd.ErrOrStderr())
	log.Debug("loaded manifest", logger.F("path", path), logger.F("targets", len(cfg.Targets)))
	return cfg, log, nil
}

// VersionCmd prints the quill version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quill v%s\n", quill.Version)
		},
	}
}
