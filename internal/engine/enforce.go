package engine

import (
	"io"
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate key warnings).
	IssueSink func(SimpleIssue)
	// FailFast turns every reported issue into an error.
	FailFast bool
}

// Enabled reports whether wrapping a source with these options has any effect.
func (o EnforceOptions) Enabled() bool {
	return o.OnDuplicate != DupIgnore || o.MaxDepth > 0 || o.MaxBytes > 0
}

// frame is one open container. For objects, key holds the member whose value
// is expected next; for arrays, index counts the elements seen so far.
type frame struct {
	object bool
	seen   map[string]struct{}
	key    string
	hasKey bool
	index  int
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes while passing tokens
// through unchanged.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcer{inner: inner, opt: opt}
}

type enforcer struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		e.stack = append(e.stack, frame{object: tok.Kind == KindBeginObject})
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fatal(SimpleIssue{Code: "parse_error", Path: path, Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].object {
			top := &e.stack[n-1]
			top.key, top.hasKey = tok.String, true
			if e.opt.OnDuplicate != DupIgnore {
				if top.seen == nil {
					top.seen = make(map[string]struct{})
				}
				if _, dup := top.seen[tok.String]; dup {
					si := SimpleIssue{Code: "duplicate_key", Path: e.valuePath(), Message: "key '" + tok.String + "' duplicated"}
					if e.opt.OnDuplicate == DupError || e.opt.FailFast {
						return Token{}, e.fatal(si)
					}
					e.report(si)
				}
				top.seen[tok.String] = struct{}{}
			}
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, e.fatal(SimpleIssue{Code: "truncated", Path: e.valuePath(), Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

func (e *enforcer) report(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

func (e *enforcer) fatal(si SimpleIssue) error {
	e.report(si)
	return IssueError{si}
}

// valueDone records that the value of the innermost container's current slot
// has been fully consumed.
func (e *enforcer) valueDone() {
	if n := len(e.stack); n > 0 {
		if top := &e.stack[n-1]; top.object {
			top.key, top.hasKey = "", false
		} else {
			top.index++
		}
	}
}

// valuePath renders the RFC 6901 pointer of the value about to be read. The
// document root is the empty pointer.
func (e *enforcer) valuePath() string {
	var b strings.Builder
	for i, f := range e.stack {
		last := i == len(e.stack)-1
		switch {
		case f.object && (f.hasKey || !last):
			b.WriteByte('/')
			b.WriteString(EscapePointerToken(f.key))
		case !f.object:
			b.WriteByte('/')
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes a reference token per RFC 6901.
func EscapePointerToken(s string) string { return pointerEscaper.Replace(s) }

// SliceSource replays a fixed token sequence.
type SliceSource struct {
	toks []Token
	pos  int
}

// NewSliceSource returns a source yielding toks in order, then io.EOF.
func NewSliceSource(toks []Token) *SliceSource { return &SliceSource{toks: toks} }

func (s *SliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *SliceSource) Location() int64 {
	if s.pos == 0 || s.pos > len(s.toks) {
		return -1
	}
	return s.toks[s.pos-1].Offset
}
