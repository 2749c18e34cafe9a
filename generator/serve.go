package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/server"
)

func serveCmd(f *flags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve site without actually generating any file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			return serve(addr, opts)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	return cmd
}

func serve(addr string, opts options) error {
	dir := opts.config.Dir

	s, err := load(opts)
	if err != nil {
		return fmt.Errorf("loading site: %v", err)
	}

	// Start serving.
	srv, err := server.Run(addr, s)
	if err != nil {
		return err
	}
	defer srv.Shutdown(context.Background())
	log.Printf("Now serving at %s, press Ctrl-C to shut down", srv.URL())

	// Setup file watcher to trigger reloading of the site should anything change on disk.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %v", err)
	}
	defer watcher.Close()
	for _, d := range []string{filepath.Join(dir, "site"), filepath.Join(dir, "templates"), opts.config.SolutionsDir} {
		if err := watchDir(watcher, d); err != nil {
			return fmt.Errorf("starting watch: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".env")); err == nil {
		// Changes to the environment need a restart, but the file is watched so that a changed
		// path prefix isn't silently ignored.
		if err := watcher.Add(filepath.Join(dir, ".env")); err != nil {
			return fmt.Errorf("starting watch: %v", err)
		}
	}
	{
		wl := watcher.WatchList()
		for i := range wl {
			wl[i] = relPath(dir, wl[i])
		}
		slices.Sort(wl)
		log.Printf("Watching:\n    %v", strings.Join(wl, "\n    "))
	}

	// Setup signals to react to Ctrl-C.
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	for {
		select {
		case event := <-watcher.Events:
			// Absolutely no need to react to chmod.
			if event.Has(fsnotify.Chmod) {
				continue
			}

			if filepath.Base(event.Name) == ".env" {
				log.Printf(".env changed, restart to apply the changes")
				continue
			}

			// Update watch list should new directories be added or removed.
			switch stat, err := os.Stat(event.Name); {
			case os.IsNotExist(err) && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)):
				if slices.Contains(watcher.WatchList(), event.Name) {
					watcher.Remove(event.Name)
					log.Printf("Removed watch directory: %v", relPath(dir, event.Name))
				}
			case err == nil && event.Has(fsnotify.Create) && stat.IsDir():
				if err := watchDir(watcher, event.Name); err != nil {
					return fmt.Errorf("adding watch: %v", err)
				}
				log.Printf("Added watch directory: %v", relPath(dir, event.Name))
			case err != nil && !os.IsNotExist(err):
				return fmt.Errorf("watching site: %v", err)
			}

			// Reload site. This is more than fast enough for now, so no caching or anything
			// is necessary here.
			start := time.Now()
			s, err := load(opts)
			if err != nil {
				log.Printf("failed to update site: %v", err)
				continue
			}
			srv.ReplaceSite(s)
			log.Printf("Site reloaded (%v)", time.Since(start))
		case err := <-watcher.Errors:
			return fmt.Errorf("watching: %v", err)
		case err := <-srv.Error():
			return fmt.Errorf("serving: %v", err)
		case <-sigint:
			fmt.Print("\r") // remove Ctrl-C output characters
			log.Printf("Received Ctrl-C, shutting down")
			return nil
		}
	}
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
	walkfn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories and build output
			if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == "target") {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walkfn); err != nil {
		return err
	}
	return nil
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
