package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dataviz/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd reports changes to the eligible files until interrupted
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Report changes to the tables in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(cfg.Data.Directory, cfg.Data.Pattern)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, infoText("Watching "+w.Dir()+". Press Ctrl+C to stop."))
			for {
				select {
				case <-ctx.Done():
					return nil
				case change, ok := <-w.Changes():
					if !ok {
						return nil
					}
					for _, p := range change.Paths {
						fmt.Fprintf(out, "%s  %s\n", change.Timestamp.Format("15:04:05"), filepath.Base(p))
					}
				}
			}
		},
	}
}
