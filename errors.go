package jtson

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported while decoding input against a declaration.
const (
	CodeTypeMismatch = "type_mismatch"
	CodeMissingField = "missing_field"
	CodeUnknownTag   = "unknown_tag"
	CodeUnknownKey   = "unknown_key"
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Issue represents a single decode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /children/2/provider); "" is the document root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints such as the accepted tags.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"integer",
	// "got":"string"}) for i18n and observability.
	Params map[string]any
}

// Where renders Path for display, naming the root explicitly.
func (it Issue) Where() string {
	if it.Path == "" {
		return "(root)"
	}
	return it.Path
}

// Issues is a collection of decode failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Where())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Has reports whether any issue carries code at path.
func (iss Issues) Has(code, path string) bool {
	for _, it := range iss {
		if it.Code == code && it.Path == path {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
