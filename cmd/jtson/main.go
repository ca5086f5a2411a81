package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nixCodeX/jtson"
	"github.com/nixCodeX/jtson/i18n"
)

// styles colors CLI output. Each run builds its own set.
type styles struct {
	ok, err, path, hint lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{ok: plain, err: plain, path: plain, hint: plain}
	}
	return styles{
		ok:   lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		err:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		path: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		hint: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func main() {
	color := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, color))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "jtson CLI\n\nUsage:\n  jtson check      -schema S.jts -decl NAME [-yaml] [-strict] [-duplicate warn|error] [FILE...]\n  jtson normalize  -schema S.jts -decl NAME [-yaml] [FILE]\n  jtson fmt        -schema S.jts\n  jtson jsonschema -schema S.jts [-decl NAME]\n\nCommon flags:\n  -config FILE  YAML file providing defaults for the flags\n  -v            verbose logging to stderr")
}

// run executes one subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, color bool) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "check", "normalize", "fmt", "jsonschema":
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}

	st := newStyles(color)
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  string
		schema   string
		declName string
		asYAML   bool
		strict   bool
		dup      string
		maxDepth int
		failFast bool
		verbose  bool
	)
	fs.StringVar(&cfgPath, "config", "", "YAML config file")
	fs.StringVar(&schema, "schema", "", "schema file")
	fs.StringVar(&declName, "decl", "", "declaration to decode against")
	fs.BoolVar(&asYAML, "yaml", false, "read input as YAML")
	fs.BoolVar(&strict, "strict", false, "reject unknown record keys")
	fs.StringVar(&dup, "duplicate", "", "duplicate key policy: ignore, warn or error")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first issue")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, st.err.Render("config: "+err.Error()))
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = schema
		case "decl":
			cfg.Decl = declName
		case "strict":
			cfg.Strict = strict
		case "duplicate":
			cfg.Duplicate = dup
		case "max-depth":
			cfg.MaxDepth = maxDepth
		case "fail-fast":
			cfg.FailFast = failFast
		}
	})
	if _, err := severity(cfg.Duplicate); err != nil {
		fmt.Fprintln(stderr, st.err.Render(err.Error()))
		return 2
	}
	if cfg.Lang != "" {
		i18n.SetLanguage(cfg.Lang)
	}

	if verbose {
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{"stderr"}
		if l, err := zc.Build(); err == nil {
			jtson.SetLogger(l)
			defer func() {
				_ = l.Sync()
				jtson.SetLogger(nil)
			}()
		}
	}

	if cfg.Schema == "" {
		fmt.Fprintln(stderr, st.err.Render("missing -schema"))
		return 2
	}
	ctx, err := jtson.CompileFile(cfg.Schema)
	if err != nil {
		fmt.Fprintln(stderr, st.err.Render(err.Error()))
		return 1
	}

	c := &cli{ctx: ctx, cfg: cfg, st: st, yaml: asYAML, stdin: stdin, stdout: stdout, stderr: stderr}
	switch sub {
	case "fmt":
		fmt.Fprint(stdout, ctx.String())
		return 0
	case "jsonschema":
		return c.jsonSchema()
	case "normalize":
		return c.normalize(fs.Args())
	}
	return c.check(fs.Args())
}

func (st styles) renderIssues(w io.Writer, name string, iss jtson.Issues) {
	for _, it := range iss {
		line := fmt.Sprintf("%s: %s %s: %s", name, st.path.Render(it.Where()), st.err.Render(it.Code), it.Message)
		if it.Hint != "" {
			line += " " + st.hint.Render("("+it.Hint+")")
		}
		fmt.Fprintln(w, strings.TrimSpace(line))
	}
}
