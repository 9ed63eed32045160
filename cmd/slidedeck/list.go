package main

import (
	"fmt"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the decks in the content directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := deck.NewLoader(cfg.DeckOptions(), logger, nil).Discover()
			if err != nil {
				return err
			}
			for _, r := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\t%s\n", r.Lang, r.Slug, r.Path)
			}
			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(newListCmd())
}
