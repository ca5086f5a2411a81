package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nixCodeX/jtson"
)

type cli struct {
	ctx    *jtson.Context
	cfg    config
	st     styles
	yaml   bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) decl() (*jtson.Decl, bool) {
	if c.cfg.Decl == "" {
		fmt.Fprintln(c.stderr, c.st.err.Render("missing -decl"))
		return nil, false
	}
	d, ok := c.ctx.Lookup(c.cfg.Decl)
	if !ok {
		fmt.Fprintln(c.stderr, c.st.err.Render(fmt.Sprintf("no declaration named %q; have %v", c.cfg.Decl, c.ctx.Names())))
		return nil, false
	}
	return d, true
}

// input opens a named file, or stdin for "-".
func (c *cli) input(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(c.stdin), nil
	}
	return os.Open(name)
}

func (c *cli) parse(d *jtson.Decl, name string) (jtson.Typed, error) {
	f, err := c.input(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	opt := c.cfg.parseOpt()
	if c.yaml {
		return jtson.ParseFrom(context.Background(), d, jtson.YAMLReader(f), opt)
	}
	return jtson.StreamParse(context.Background(), d, f, opt)
}

// check decodes every input and reports issues. The exit code is 1 when any
// input is rejected.
func (c *cli) check(files []string) int {
	d, ok := c.decl()
	if !ok {
		return 2
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	code := 0
	for _, name := range files {
		_, err := c.parse(d, name)
		if err == nil {
			fmt.Fprintln(c.stdout, c.st.ok.Render(name+": ok"))
			continue
		}
		code = 1
		if iss, ok := jtson.AsIssues(err); ok {
			c.st.renderIssues(c.stdout, name, iss)
			continue
		}
		fmt.Fprintln(c.stderr, c.st.err.Render(name+": "+err.Error()))
	}
	return code
}

// normalize decodes one input and prints its canonical JSON form: undeclared
// keys dropped, union tags first, fields in declaration order.
func (c *cli) normalize(files []string) int {
	d, ok := c.decl()
	if !ok {
		return 2
	}
	name := "-"
	if len(files) > 0 {
		name = files[0]
	}
	v, err := c.parse(d, name)
	if err != nil {
		if iss, ok := jtson.AsIssues(err); ok {
			c.st.renderIssues(c.stderr, name, iss)
			return 1
		}
		fmt.Fprintln(c.stderr, c.st.err.Render(err.Error()))
		return 1
	}
	out, err := v.Untype().Indent("", "  ")
	if err != nil {
		fmt.Fprintln(c.stderr, c.st.err.Render(err.Error()))
		return 1
	}
	fmt.Fprintln(c.stdout, string(out))
	return 0
}

func (c *cli) jsonSchema() int {
	s := c.ctx.JSONSchema()
	if c.cfg.Decl != "" {
		d, ok := c.decl()
		if !ok {
			return 2
		}
		s = d.JSONSchema()
	}
	raw, err := s.Marshal()
	if err != nil {
		fmt.Fprintln(c.stderr, c.st.err.Render(err.Error()))
		return 1
	}
	fmt.Fprintln(c.stdout, string(raw))
	return 0
}
