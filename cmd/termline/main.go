// Package main is the entry point for the termline demo shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/termline/internal/config"
	"github.com/dshills/termline/internal/repl"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	LogPath    string
	LogLevel   string
	Prompt     string
}

// stdioTransport pairs the process's stdin and stdout into a single
// read/write session.
type stdioTransport struct {
	in  io.Reader
	out io.Writer
}

func (t *stdioTransport) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t *stdioTransport) Write(p []byte) (int, error) { return t.out.Write(p) }

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Prompt != "" {
		cfg.Prompt = opts.Prompt
	}

	// Logs would interleave with the edited line on a shared terminal,
	// so they only go somewhere when routed to a file.
	logOut := io.Discard
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	log := repl.NewLogger(logOut, repl.ParseLevel(cfg.LogLevel))

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "Error: stdin is not a terminal")
		return 1
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to enter raw mode: %v\n", err)
		return 1
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to restore terminal: %v\n", err)
		}
	}()

	session, err := repl.New(repl.Options{
		Transport: &stdioTransport{in: os.Stdin, out: os.Stdout},
		Config:    cfg,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	// Reload the config file while running; prompt and log level apply
	// between lines.
	if opts.ConfigPath != "" {
		watcher, err := config.Watch(opts.ConfigPath)
		if err != nil {
			log.Warn("config watch unavailable: %v", err)
		} else {
			defer watcher.Close()
			go func() {
				for {
					select {
					case cfg, ok := <-watcher.Configs():
						if !ok {
							return
						}
						session.ApplyConfig(cfg)
					case err, ok := <-watcher.Errors():
						if !ok {
							return
						}
						log.Warn("config reload failed: %v", err)
					}
				}
			}()
		}
	}

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "\r\nError: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogPath, "log", "", "Path to log file (logging disabled without it)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Prompt, "prompt", "", "Prompt string")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Termline - line-editing Lua shell\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termline [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termline                     Start with defaults\n")
		fmt.Fprintf(os.Stderr, "  termline -c termline.toml    Start with a config file\n")
		fmt.Fprintf(os.Stderr, "  termline -log session.log    Log the session to a file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Termline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
