package main

import (
	"dataviz/internal/errors"
	"dataviz/internal/gui"
	"dataviz/internal/tui"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:    "gui",
		Short:  "Launch the graphical dashboard",
		Long:   `Launch the desktop dashboard: pick a file, preview it and generate plots.`,
		Args:   cobra.NoArgs,
		Hidden: !gui.IsGUIAvailable(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return errors.New(`this build has no GUI, use "dataviz tui" or "dataviz plot"`)
			}
			app, err := gui.NewFactory(cfg).Create()
			if err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

// NewTUICmd creates the terminal dashboard command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal dashboard",
		Long: "Start the terminal dashboard. Generated plots are written to the output directory\n" +
			"and log lines to " + tui.LogFile + " while the dashboard runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cfg)
		},
	}
}
