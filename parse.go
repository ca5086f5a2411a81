package jtson

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	eng "github.com/nixCodeX/jtson/internal/engine"
	"github.com/nixCodeX/jtson/value"
)

// ParseFrom reads one document from src and decodes it against d. Token-level
// problems (syntax, duplicate keys under Strictness, depth and size limits)
// are reported as Issues, just like decode failures.
func ParseFrom(ctx context.Context, d *Decl, src Source, opts ...ParseOpt) (Typed, error) {
	if d == nil {
		return nil, singleIssue(CodeParseError, "nil declaration")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opt := lastOpt(opts)
	v, err := ReadValue(src, opt)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := d.Decode(v, opt.decodeOpt())
	if err != nil {
		if iss, ok := AsIssues(err); ok {
			Logger().Debug("input rejected", zap.String("decl", d.name), zap.Int("issues", len(iss)))
		}
		return nil, err
	}
	return out, nil
}

// ReadValue materializes one document from src, applying the token-level
// limits of opt.
func ReadValue(src Source, opts ...ParseOpt) (value.Value, error) {
	opt := lastOpt(opts)
	ts := engineTokenSource(src)
	if opt.Strictness.OnDuplicateKey != Ignore || opt.MaxDepth > 0 || opt.MaxBytes > 0 {
		ts = eng.WrapWithEnforcement(ts, eng.EnforceOptions{
			OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			MaxBytes:    opt.MaxBytes,
			IssueSink:   warnSink,
			FailFast:    opt.FailFast,
		})
	}
	v, err := eng.DecodeDocument[value.Value](ts, value.Builder{})
	if err != nil {
		return value.Value{}, toIssues(err)
	}
	return v, nil
}

// warnSink logs token-level warnings that do not fail the parse.
func warnSink(si eng.SimpleIssue) {
	Logger().Warn("input warning", zap.String("code", si.Code), zap.String("path", si.Path), zap.String("message", si.Message))
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	}
	return eng.DupIgnore
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message})
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return AppendIssues(nil, Issue{Code: CodeTruncated, Path: "", Message: "unexpected end of input", Cause: err})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "", Message: err.Error(), Cause: err})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Path: "", Message: msg})
}

// StreamParse decodes a JSON document read from r.
// When MaxBytes is set it enforces the size cap up front, otherwise it
// delegates directly to ParseFrom.
func StreamParse(ctx context.Context, d *Decl, r io.Reader, opts ...ParseOpt) (Typed, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		lr := io.LimitReader(r, opt.MaxBytes+1)
		data, err := io.ReadAll(lr)
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > opt.MaxBytes {
			return nil, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return ParseFrom(ctx, d, JSONBytes(data), opts...)
	}
	return ParseFrom(ctx, d, JSONReader(r), opts...)
}
