package main

import (
	"fmt"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/pipeline"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var langs []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "compile every deck to JSON in the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := deck.NewLoader(cfg.DeckOptions(), logger, nil)
			job := pipeline.NewJob(langs)
			pipeline.NewWorker(loader, cfg.OutputDir, cfg.BuildConcurrency, logger, nil).Process(cmd.Context(), job)

			snap := job.Snapshot()
			for _, e := range snap.Progress.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d decks, %d slides -> %s\n",
				snap.Status, snap.Progress.DecksBuilt, snap.Progress.TotalDecks, snap.Progress.SlidesWritten, cfg.OutputDir)

			if snap.Status == pipeline.StatusFailed {
				return fmt.Errorf("build failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "output directory")
	cmd.Flags().StringSliceVar(&langs, "lang", nil, "only build these languages")
	cmd.Flags().IntVar(&cfg.BuildConcurrency, "concurrency", cfg.BuildConcurrency, "decks compiled in parallel")

	return cmd
}

func init() {
	rootCmd.AddCommand(newBuildCmd())
}
