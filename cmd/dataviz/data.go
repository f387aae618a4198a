package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dataviz/internal/errors"
	"dataviz/internal/pipeline"
	"dataviz/internal/plot"
	"dataviz/internal/tui/components"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// NewListCmd lists the eligible files
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tables in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			entries, err := p.Files()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, warningText(fmt.Sprintf("No files matching %s in %s", cfg.Data.Pattern, p.Dir())))
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d files in %s", len(entries), p.Dir())))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s\n", e)
			}
			return nil
		},
	}
}

// NewPreviewCmd prints the column types and first rows of a file
func NewPreviewCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show the columns and first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("rows") {
				cfg.Data.PreviewRows = rows
			}
			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			t, err := p.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(t.Name))
			for _, c := range t.Columns {
				line := fmt.Sprintf("  %-20s %s", c.Name, infoText(fmt.Sprintf("%-12s", c.Type)))
				if st, ok := c.Stats(); ok {
					line += " " + st.String()
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)

			preview := components.NewPreview(lipgloss.Color(cfg.Theme.Border), headerStyle, lipgloss.NewStyle())
			fmt.Fprintln(out, preview.View(t, p.Preview(t)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 5, "number of rows to show")
	return cmd
}

// NewPlotCmd renders one chart to a PNG file
func NewPlotCmd() *cobra.Command {
	var (
		x, y, kind, output string
	)

	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Render a chart to a PNG file",
		Long: `Render a chart from FILE in the data directory.

Plot types: line, bar, scatter, distribution, count (or their full names).
Distribution and count plots only use --x. Without --out the chart is written
to the configured output directory with a name derived from the request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := plot.ParseKind(kind)
			if err != nil {
				return err
			}
			req := pipeline.NewSelection().
				WithFile(args[0]).
				WithX(x).
				WithY(y).
				WithKind(k).
				Request()

			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			var path string
			if output == "" {
				path, _, err = p.Save(req)
			} else {
				path, err = renderTo(p, req, output)
			}
			if err != nil {
				var warning *errors.ValidationWarning
				if errors.As(err, &warning) {
					fmt.Fprintln(cmd.ErrOrStderr(), warningText(warning.Message()))
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successText("Saved "+path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&x, "x", "x", plot.None, "column for the X axis")
	cmd.Flags().StringVarP(&y, "y", "y", plot.None, "column for the Y axis")
	cmd.Flags().StringVarP(&kind, "kind", "k", plot.Line.Short(), "plot type")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output PNG path")
	return cmd
}

func renderTo(p *pipeline.Pipeline, req plot.Request, path string) (string, error) {
	img, err := p.Render(req)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.NewFileError("cannot create output directory", dir, errors.FileAccessDenied, err)
		}
	}
	if err := os.WriteFile(path, img.PNG, 0644); err != nil {
		return "", errors.NewFileError("cannot write chart", path, errors.FileAccessDenied, err)
	}
	return path, nil
}
