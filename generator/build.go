package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/pack"
)

func buildCmd(f *flags) *cobra.Command {
	var (
		out    string
		minify bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Renders the site into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			start := time.Now()
			s, err := load(opts)
			if err != nil {
				return fmt.Errorf("loading site: %v", err)
			}
			if err := pack.Dir(out, s, pack.Options{Minify: minify}); err != nil {
				return err
			}
			log.Printf("Site built (%v)", time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "_site", "output directory")
	cmd.Flags().BoolVar(&minify, "minify", true, "minify HTML, CSS, JavaScript, SVG and XML")
	return cmd
}

func packCmd(f *flags) *cobra.Command {
	var minify bool
	cmd := &cobra.Command{
		Use:   "pack FILE.tar",
		Short: "Packs the site into .tar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			s, err := load(opts)
			if err != nil {
				return fmt.Errorf("loading site: %v", err)
			}
			return pack.Tar(args[0], s, pack.Options{Minify: minify})
		},
	}
	cmd.Flags().BoolVar(&minify, "minify", true, "minify HTML, CSS, JavaScript, SVG and XML")
	return cmd
}
