package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/spf13/cobra"
)

func newOutlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline <slug> [lang]",
		Short: "print the slide outline of a deck",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := cfg.DefaultLang
			if len(args) == 2 {
				lang = args[1]
			}

			loader := deck.NewLoader(cfg.DeckOptions(), logger, nil)
			ref, err := loader.Find(args[0], lang)
			if err != nil {
				return err
			}
			d, err := loader.Compile(cmd.Context(), ref)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s (%s)\n", d.Title, d.Lang)
			for _, s := range d.Outline {
				title := s.Title
				if s.Empty {
					title = "(empty)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Anchor, s.Kind, title)
			}
			return w.Flush()
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(newOutlineCmd())
}
