// Package main is the entry point for the vix text engine.
//
// vix opens a file into a piece-table buffer, optionally runs Lua edit
// scripts against it, and writes the result or a description of the
// buffer's internal layout.
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

	"github.com/dshills/vix/internal/config"
	"github.com/dshills/vix/internal/document"
	"github.com/dshills/vix/internal/inspect"
	"github.com/dshills/vix/internal/logging"
	"github.com/dshills/vix/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	logLevel   string
	readOnly   bool
	scripts    stringList
	exprs      stringList
	output     string
	inPlace    bool
	dump       bool
	query      string
	line       int
	file       string
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var errHelp = errors.New("help requested")

func parseFlags(args []string, stdout, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("vix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", config.DefaultPath, "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	fs.BoolVar(&opts.readOnly, "R", false, "Open the file read-only")
	fs.Var(&opts.scripts, "script", "Run a Lua edit script file (repeatable)")
	fs.Var(&opts.exprs, "e", "Run an inline Lua edit script (repeatable)")
	fs.StringVar(&opts.output, "o", "", "Write the result to this path")
	fs.BoolVar(&opts.inPlace, "w", false, "Write the result back to the input file")
	fs.BoolVar(&opts.dump, "dump", false, "Print the piece layout as JSON")
	fs.StringVar(&opts.query, "query", "", "Print the part of the piece layout selected by a gjson path")
	fs.IntVar(&opts.line, "line", -1, "Print a single zero-based line")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "vix - piece-table text engine\n\n")
		fmt.Fprintf(stderr, "Usage: vix [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nWithout -script or -e, a Lua script is read from stdin when stdin is not a terminal.\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  vix file.txt                          Print the file\n")
		fmt.Fprintf(stderr, "  vix -e 'doc.insert(0, \"# \")' -w f.md   Edit a file in place\n")
		fmt.Fprintf(stderr, "  vix -dump file.txt                    Show the piece table\n")
		fmt.Fprintf(stderr, "  vix -query 'pieces.#' file.txt        Count pieces\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "vix %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	if opts.inPlace && opts.file == "" {
		return opts, errors.New("-w requires a file")
	}
	if opts.inPlace && opts.output != "" {
		return opts, errors.New("-w and -o are mutually exclusive")
	}
	if opts.inPlace || opts.output != "" {
		write := "-o"
		if opts.inPlace {
			write = "-w"
		}
		switch {
		case opts.dump:
			return opts, fmt.Errorf("%s and -dump are mutually exclusive", write)
		case opts.query != "":
			return opts, fmt.Errorf("%s and -query are mutually exclusive", write)
		case opts.line >= 0:
			return opts, fmt.Errorf("%s and -line are mutually exclusive", write)
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.readOnly {
		cfg.Editor.ReadOnly = true
	}

	log, closeLog, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if err := execute(ctx, opts, cfg, log, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*logging.Logger, func(), error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	lc.Output = stderr
	if cfg.File == "" {
		return logging.New(lc), func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	lc.Output = f
	return logging.New(lc), func() { f.Close() }, nil
}

func execute(ctx context.Context, opts options, cfg *config.Config, log *logging.Logger, stdin io.Reader, stdout io.Writer) error {
	registry := document.NewRegistry(document.OptionsFromConfig(cfg.Editor, log))

	var doc *document.Document
	var err error
	if opts.file != "" {
		doc, err = registry.Open(opts.file)
	} else {
		doc, err = document.New(document.OptionsFromConfig(cfg.Editor, log))
		if err == nil {
			registry.Add(doc)
		}
	}
	if err != nil {
		return err
	}
	defer registry.Close(doc.ID())

	if err := runScripts(ctx, opts, cfg, log, doc, stdin); err != nil {
		return err
	}

	switch {
	case opts.dump || opts.query != "":
		return writeDump(opts, doc, stdout)
	case opts.line >= 0:
		text, err := doc.Buffer().LineText(opts.line)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, text)
		return err
	case opts.inPlace:
		if !doc.Modified() {
			log.Debug("%s unchanged, not writing", doc.Path())
			return nil
		}
		return doc.Save()
	case opts.output != "":
		return doc.SaveAs(opts.output)
	default:
		data, _, err := doc.Encode()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
}

func runScripts(ctx context.Context, opts options, cfg *config.Config, log *logging.Logger, doc *document.Document, stdin io.Reader) error {
	exprs := opts.exprs
	if len(opts.scripts) == 0 && len(exprs) == 0 && !isTerminal(stdin) {
		code, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading script from stdin: %w", err)
		}
		if len(code) > 0 {
			exprs = append(exprs, string(code))
		}
	}
	if len(opts.scripts) == 0 && len(exprs) == 0 {
		return nil
	}

	runner, err := script.New(doc.Buffer(),
		script.WithTimeout(cfg.Script.Timeout.Duration),
		script.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer runner.Close()

	for _, path := range opts.scripts {
		log.Debug("running %s", path)
		if err := runner.RunFile(ctx, path); err != nil {
			return err
		}
	}
	for i, code := range exprs {
		if err := runner.Run(ctx, fmt.Sprintf("<expr %d>", i+1), code); err != nil {
			return err
		}
	}
	return nil
}

func writeDump(opts options, doc *document.Document, stdout io.Writer) error {
	snap := doc.Buffer().Snapshot()
	if opts.query != "" {
		raw, err := inspect.Dump(snap)
		if err != nil {
			return err
		}
		res, err := inspect.Query(raw, opts.query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, res.String())
		return err
	}
	out, err := inspect.DumpIndent(snap)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

// isTerminal reports whether r is an interactive terminal. Readers that are
// not files never are.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
