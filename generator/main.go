package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/config"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark"
)

// flags are the flags shared by all commands.
type flags struct {
	dir          string
	solutions    string
	math         string
	noPermalinks bool
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.dir, "dir", ".", "site directory, containing site/ and templates/")
	pf.StringVar(&f.solutions, "solutions", "", "directory containing the day_N.rs solutions (default $SOLUTIONS_DIR or ../src relative to --dir)")
	pf.StringVar(&f.math, "math", goldmark.MathJax.String(), "how to render math, mathjax or mathml")
	pf.BoolVar(&f.noPermalinks, "no-permalinks", false, "don't add permalinks to headings")
}

// options resolves the flags and the environment into the options to load a site with.
func (f *flags) options() (options, error) {
	cfg, err := config.Load(f.dir)
	if err != nil {
		return options{}, fmt.Errorf("loading config: %v", err)
	}
	if f.solutions != "" {
		if cfg.SolutionsDir, err = filepath.Abs(f.solutions); err != nil {
			return options{}, fmt.Errorf("resolving solutions directory: %v", err)
		}
	}

	md := goldmark.DefaultOptions()
	if md.Math, err = goldmark.ParseMathMode(f.math); err != nil {
		return options{}, err
	}
	md.HeadingPermalinks = !f.noPermalinks

	return options{config: cfg, markdown: md}, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var f flags
	rootCmd := &cobra.Command{
		Use:          "site [command]",
		Short:        "Static site generator for the Advent of Code 2025 write-ups",
		SilenceUsage: true,
	}
	f.register(rootCmd)

	rootCmd.AddCommand(serveCmd(&f))
	rootCmd.AddCommand(buildCmd(&f))
	rootCmd.AddCommand(packCmd(&f))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
