package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/spf13/cobra"
)

func newSegmentCmd() *cobra.Command {
	var (
		filename string
		tree     bool
	)

	cmd := &cobra.Command{
		Use:   "segment [file]",
		Short: "segment one document and print the slide tree as JSON",
		Long: `Segment reads a Markdown, MDX or HTML document (or stdin when no file is
given) and prints its slide tree. With --tree the input is a JSON document
tree instead of source text. Imports are not resolved; use "build" or the
server for decks with sub-documents.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
				if filename == "" {
					filename = filepath.Base(args[0])
				}
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			var root *hast.Root
			if tree {
				in, err := hast.UnmarshalRoot(data)
				if err != nil {
					return err
				}
				root = slides.Segment(in, cfg.SegmentConfig())
			} else {
				if filename == "" {
					filename = "stdin.md"
				}
				d, err := deck.NewLoader(cfg.DeckOptions(), logger, nil).CompileSource(filename, data)
				if err != nil {
					return err
				}
				root = d.Root
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(root)
		},
	}

	cmd.Flags().StringVarP(&filename, "filename", "f", "", "name used to pick the parser for stdin input")
	cmd.Flags().BoolVar(&tree, "tree", false, "input is a JSON document tree")

	return cmd
}

func init() {
	rootCmd.AddCommand(newSegmentCmd())
}
