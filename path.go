package jtson

import (
	"strconv"
	"strings"

	eng "github.com/nixCodeX/jtson/internal/engine"
	"github.com/nixCodeX/jtson/i18n"
)

// path is a persistent JSON Pointer under construction. Children share their
// parent's prefix, so descending costs one small allocation.
type path struct {
	parent *path
	key    string
	index  int
	isIdx  bool
}

var rootPath *path

func (p *path) Field(name string) *path { return &path{parent: p, key: name} }

func (p *path) Index(i int) *path { return &path{parent: p, index: i, isIdx: true} }

// Pointer renders the RFC 6901 pointer. The root is the empty pointer, so
// "/" addresses a member whose key is "".
func (p *path) Pointer() string {
	if p == nil {
		return ""
	}
	var parts []string
	for q := p; q != nil; q = q.parent {
		if q.isIdx {
			parts = append(parts, strconv.Itoa(q.index))
		} else {
			parts = append(parts, eng.EscapePointerToken(q.key))
		}
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// Issue builds an Issue at p with a localized message. kv pairs become both
// the translator data and the structured Params.
func (p *path) Issue(code string, kv ...string) Issue {
	var data map[string]string
	var params map[string]any
	if len(kv) > 1 {
		data = make(map[string]string, len(kv)/2)
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			data[kv[i]] = kv[i+1]
			params[kv[i]] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, data), Params: params}
}
