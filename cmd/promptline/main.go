// Package main is a small REPL built on promptline. It echoes each line
// it reads, completes a few words and shows the editing mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/promptline/internal/app"
	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/completion"
	"github.com/dshills/promptline/internal/renderer/layout"
	"github.com/dshills/promptline/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// words feeds the demo completer.
var words = []string{
	"break", "case", "chan", "const", "continue", "default", "defer",
	"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
	"interface", "map", "package", "range", "return", "select", "struct",
	"switch", "type", "var",
}

type flags struct {
	configPath string
	prompt     string
	vi         bool
	multiline  bool
	fullscreen bool
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	opts := app.Options{
		Config:      cfg,
		WatchConfig: cfg.Path() != "",
		Prompt:      f.prompt,
		Completer:   completion.NewFuzzyCompleter(completion.NewWordCompleter(words...)),
		Terminal:    terminal.Stdio(),
		Logger:      logger,
	}
	if f.multiline {
		opts.Continuation = strings.Repeat(".", max(len(f.prompt)-1, 0)) + " "
		opts.Checker = buffer.CompletenessFunc(func(text string) bool {
			return !strings.HasSuffix(text, "\\")
		})
	}
	opts.BottomToolbar = func() layout.Fragments {
		return layout.Fragments{{Style: "class:bottom-toolbar", Text: " Tab: complete  Ctrl-D: exit "}}
	}

	session, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer session.Close()

	ctx := context.Background()
	for {
		line, err := session.Prompt(ctx)
		switch {
		case err == nil:
			fmt.Printf("%s\n", line)
		case errors.Is(err, app.ErrAborted):
			continue
		case errors.Is(err, app.ErrEOF), errors.Is(err, app.ErrTerminated):
			return 0
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
}

func loadConfig(f flags) (*config.Config, error) {
	path := config.DefaultPath()
	var opts []config.Option
	if f.configPath != "" {
		path = f.configPath
		opts = append(opts, config.WithRequired())
	}
	cfg, err := config.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if f.vi {
		cfg.Editing.Mode = "vi"
	}
	if f.multiline {
		cfg.Editing.Multiline = true
	}
	if f.fullscreen {
		cfg.Render.Fullscreen = true
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.prompt, "prompt", "> ", "Prompt text")
	flag.BoolVar(&f.vi, "vi", false, "Start in Vi insert mode")
	flag.BoolVar(&f.multiline, "multiline", false, "Continue lines ending in a backslash")
	flag.BoolVar(&f.fullscreen, "fullscreen", false, "Draw on the whole screen")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "promptline - interactive line editor demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: promptline [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  promptline                  Emacs key bindings\n")
		fmt.Fprintf(os.Stderr, "  promptline -vi              Vi key bindings\n")
		fmt.Fprintf(os.Stderr, "  promptline -c demo.toml     Use a config file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("promptline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}
	return f
}
