// Package main is the entry point for the softwrap pager.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mgrady/softwrap/internal/app"
	"github.com/mgrady/softwrap/internal/config"
	"github.com/mgrady/softwrap/internal/log"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		styleName   string
		tabWidth    int
		noWrap      bool
		noHighlight bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&styleName, "style", "", "Chroma highlight style")
	flag.IntVar(&tabWidth, "tab", 0, "Tab stop width in cells")
	flag.BoolVar(&noWrap, "no-wrap", false, "Start with soft wrap disabled")
	flag.BoolVar(&noHighlight, "no-highlight", false, "Disable syntax highlighting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softwrap - soft-wrapping file pager\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softwrap [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  q, Esc      quit\n")
		fmt.Fprintf(os.Stderr, "  j/k, arrows scroll\n")
		fmt.Fprintf(os.Stderr, "  w           toggle wrapping\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("softwrap %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if styleName != "" {
		cfg.Highlight.Style = styleName
	}
	if tabWidth > 0 {
		cfg.Editor.TabWidth = tabWidth
	}
	if noWrap {
		cfg.Editor.Wrap = false
	}
	if noHighlight {
		cfg.Highlight.Enabled = false
	}

	logger := log.Null
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = log.New(f, log.ParseLevel(cfg.Log.Level))
	}

	application, err := app.New(app.Options{
		Path:   flag.Arg(0),
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
