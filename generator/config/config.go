// Package config reads the settings of a site from the environment.
//
// Settings are read from the process environment first and from an optional .env file in the site
// directory second, so that the real environment always wins:
//
//	PATH_PREFIX    prefix of all URLs, e.g. /advent-of-code-2025 when served from a sub path
//	SITE_URL       absolute URL the site is published at, used for the feed
//	SOLUTIONS_DIR  directory containing the day_N.rs solutions, relative to the site directory
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSiteURL      = "https://kamioftea.github.io"
	DefaultSolutionsDir = "../src"
)

// Config holds the settings of a site.
type Config struct {
	Dir          string // site directory, containing site/ and templates/
	SolutionsDir string // absolute
	PathPrefix   string // empty or a path starting with a slash, never a trailing slash
	SiteURL      string // without trailing slash
}

// Load reads the configuration for the site in dir.
func Load(dir string) (Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, fmt.Errorf("resolving site directory: %v", err)
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %v", err)
	}
	lookup := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		if v, ok := dotenv[key]; ok {
			return v
		}
		return def
	}

	siteURL, err := NormaliseSiteURL(lookup("SITE_URL", DefaultSiteURL))
	if err != nil {
		return Config{}, err
	}

	solutions := lookup("SOLUTIONS_DIR", DefaultSolutionsDir)
	if !filepath.IsAbs(solutions) {
		solutions = filepath.Join(dir, solutions)
	}

	return Config{
		Dir:          dir,
		SolutionsDir: solutions,
		PathPrefix:   NormalisePathPrefix(lookup("PATH_PREFIX", "")),
		SiteURL:      siteURL,
	}, nil
}

// NormalisePathPrefix turns prefix into either an empty string or a path with a leading and no
// trailing slash.
func NormalisePathPrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// NormaliseSiteURL validates u and removes any trailing slash.
func NormaliseSiteURL(u string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", fmt.Errorf("parsing SITE_URL: %v", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("SITE_URL must be an absolute URL, got %q", u)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
