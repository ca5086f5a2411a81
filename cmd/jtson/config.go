package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nixCodeX/jtson"
)

// config mirrors the optional YAML file given with -config. Command-line
// flags override its values.
type config struct {
	Schema    string `yaml:"schema"`
	Decl      string `yaml:"decl"`
	Strict    bool   `yaml:"strict"`
	Duplicate string `yaml:"duplicate"` // ignore | warn | error
	MaxDepth  int    `yaml:"max_depth"`
	MaxBytes  int64  `yaml:"max_bytes"`
	FailFast  bool   `yaml:"fail_fast"`
	Lang      string `yaml:"lang"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := severity(c.Duplicate); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func severity(s string) (jtson.Severity, error) {
	switch s {
	case "", "ignore":
		return jtson.Ignore, nil
	case "warn":
		return jtson.Warn, nil
	case "error":
		return jtson.Error, nil
	}
	return jtson.Ignore, fmt.Errorf("duplicate: want ignore, warn or error, got %q", s)
}

func (c config) parseOpt() jtson.ParseOpt {
	sev, _ := severity(c.Duplicate)
	opt := jtson.ParseOpt{
		Strictness: jtson.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
		FailFast:   c.FailFast,
	}
	if c.Strict {
		opt.Unknown = jtson.UnknownStrict
	}
	return opt
}
