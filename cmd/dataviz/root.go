package main

import (
	"os"

	"dataviz/internal/config"
	"dataviz/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dataDir  string
	debug    bool
	jsonLogs bool
	cfg      *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfgFile, dataDir, debug, jsonLogs, cfg = "", "", false, false, nil

	rootCmd := &cobra.Command{
		Use:   "dataviz",
		Short: "Explore the tables in a data directory as charts",
		Long: `dataviz lists the delimited files in a data directory, previews them and
draws line, bar, scatter, distribution and count plots from chosen columns.

Run "dataviz gui" for the desktop dashboard, "dataviz tui" for the terminal
one, or "dataviz plot" to write a chart straight to a PNG file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := []log.Option{log.WithOutput(os.Stderr)}
			if jsonLogs {
				opts = append(opts, log.WithJSON())
			}
			log.Configure(opts...)
			log.SetDebug(debug)

			// config init must work without a readable config
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dataviz/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "data directory (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")

	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewPreviewCmd())
	rootCmd.AddCommand(NewPlotCmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

func loadConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if dataDir != "" {
		cfg.Data.Directory = dataDir
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log.LogWithFields(log.F("dir", cfg.Data.Directory), log.F("pattern", cfg.Data.Pattern)).Debug("configuration loaded")
	return nil
}
