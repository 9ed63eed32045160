package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Environment (and .env) supply defaults; flags override them.
	cfg     = config.Load()
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "slidedeck",
	Short: "Compile Markdown and MDX course material into slide trees",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var out io.Writer = io.Discard
		if verbose {
			out = os.Stderr
		}
		logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage: true, // don't print help when subcommands return an error
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.ContentDir, "content-dir", cfg.ContentDir, "directory holding <slug>.<lang>.<ext> decks")
	flags.StringVar(&cfg.DefaultLang, "default-lang", cfg.DefaultLang, "language for deck files without one")
	flags.StringSliceVar(&cfg.SlideSeparators, "separators", cfg.SlideSeparators, "top-level tags that start a new slide")
	flags.StringVar(&cfg.SlideTag, "tag", cfg.SlideTag, "tag of generated slide containers")
	flags.StringSliceVar(&cfg.SubDocExtensions, "subdoc-ext", cfg.SubDocExtensions, "import sources with these extensions are sub-decks")
	flags.BoolVar(&cfg.SanitizeHTML, "sanitize", cfg.SanitizeHTML, "sanitize raw HTML")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	flags.Var(newClassFlag(&cfg.SlideClass), "class", `class of generated slides ("" for none)`)
}

// classFlag binds --class to a *string so an explicit empty value means no
// class.
type classFlag struct {
	target **string
}

func newClassFlag(target **string) *classFlag {
	return &classFlag{target: target}
}

func (f *classFlag) String() string {
	if f.target == nil || *f.target == nil {
		return ""
	}
	return **f.target
}

func (f *classFlag) Set(v string) error {
	if v == "" {
		*f.target = nil
		return nil
	}
	*f.target = &v
	return nil
}

func (f *classFlag) Type() string {
	return "string"
}
