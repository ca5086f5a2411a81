package jtson

// UnknownPolicy controls how record members without a declared field are
// handled.
type UnknownPolicy int

const (
	UnknownStrip  UnknownPolicy = iota // Ignore unknown keys.
	UnknownStrict                      // Reject unknown keys with an error.
)

// Strictness configures enforcement applied while reading tokens.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt configures decoding of an already materialized value.
type DecodeOpt struct {
	Unknown  UnknownPolicy
	FailFast bool // stop at the first issue
}

// ParseOpt bundles options for decoding straight from a Source.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	Unknown    UnknownPolicy
	FailFast   bool
}

func (o ParseOpt) decodeOpt() DecodeOpt {
	return DecodeOpt{Unknown: o.Unknown, FailFast: o.FailFast}
}

// lastOpt implements last-wins variadic options.
func lastOpt[O any](opts []O) O {
	var o O
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	return o
}
