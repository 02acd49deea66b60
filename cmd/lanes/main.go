package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/lanes/internal/config"
	"github.com/abatilo/lanes/internal/logger"
	"github.com/abatilo/lanes/internal/output"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	jsonOutput bool
	yamlOutput bool
	configPath string
	dataDir    string

	cfg       *config.Config
	log       *zap.Logger
	formatter output.Formatter
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lanes",
		Short: "A local kanban board for your own tasks",
		Long:  "lanes - A local, single-user kanban board with nested tasks, auto-clear and weekly reports.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			formatter = output.New(jsonOutput, yamlOutput)

			loaded, err := config.Load(configPath)
			if err != nil {
				printError(err)
			}
			if dataDir != "" {
				loaded.DataDir = dataDir
			}
			cfg = loaded
			log = logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/lanes/config.yaml)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Board data directory (default: nearest .lanes or ~/.lanes)")

	root.AddCommand(
		columnCmd(),
		addCmd(),
		subCmd(),
		toggleCmd(),
		rmCmd(),
		editCmd(),
		priorityCmd(),
		pendingCmd(),
		dueCmd(),
		undueCmd(),
		mvCmd(),
		clearCmd(),
		showCmd(),
		sweepCmd(),
		reportCmd(),
		settingsCmd(),
		runCmd(),
	)
	return root
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	f := formatter
	if f == nil {
		f = output.NewHumanFormatter()
	}
	os.Stdout.WriteString(f.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}
