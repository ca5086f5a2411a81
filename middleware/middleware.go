// Package middleware decodes HTTP request bodies against a declaration and
// hands the typed value to the next handler through the request context.
package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	j "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/nixCodeX/jtson"
)

// ctxKeyTyped is a typed context key for storing the decoded value.
type ctxKeyTyped struct{}

// ContextWithTyped attaches a decoded value to the context.
func ContextWithTyped(ctx context.Context, v jtson.Typed) context.Context {
	return context.WithValue(ctx, ctxKeyTyped{}, v)
}

// TypedFromContext retrieves the decoded value from context.
func TypedFromContext(ctx context.Context) (jtson.Typed, bool) {
	v, ok := ctx.Value(ctxKeyTyped{}).(jtson.Typed)
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 1 MiB
func DefaultParseOpt() jtson.ParseOpt {
	return jtson.ParseOpt{
		Strictness: jtson.Strictness{OnDuplicateKey: jtson.Error},
		MaxBytes:   1 << 20,
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []jtson.Issue) map[string]any {
	out := make([]map[string]any, len(issues))
	for i, it := range issues {
		m := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if it.Hint != "" {
			m["hint"] = it.Hint
		}
		out[i] = m
	}
	return map[string]any{"issues": out}
}

// Options configures Decode.
type Options struct {
	Parse  jtson.ParseOpt
	Logger *zap.Logger
}

// Decode returns middleware that decodes the request body against d. Bodies
// in YAML (Content-Type containing "yaml") are accepted as well as JSON.
// Rejected bodies get a 400 response carrying ErrorPayload; the next handler
// reads the value with TypedFromContext.
func Decode(d *jtson.Decl, opts ...Options) func(http.Handler) http.Handler {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	} else {
		o.Parse = DefaultParseOpt()
	}
	log := o.Logger
	if log == nil {
		log = jtson.Logger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := DecodeRequest(r, d, o.Parse)
			if err != nil {
				iss, ok := jtson.AsIssues(err)
				if !ok {
					log.Error("decode request body", zap.String("decl", d.Name()), zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				log.Debug("request body rejected", zap.String("decl", d.Name()), zap.Int("issues", len(iss)))
				writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithTyped(r.Context(), v)))
		})
	}
}

// DecodeRequest decodes the body of r against d, reading YAML when the
// Content-Type says so and JSON otherwise. It closes the body.
func DecodeRequest(r *http.Request, d *jtson.Decl, opt jtson.ParseOpt) (jtson.Typed, error) {
	if r.Body == nil {
		return nil, jtson.Issues{{Path: "", Code: jtson.CodeTruncated, Message: "empty body"}}
	}
	defer r.Body.Close()
	if !strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return jtson.StreamParse(r.Context(), d, r.Body, opt)
	}
	var body io.Reader = r.Body
	if opt.MaxBytes > 0 {
		body = io.LimitReader(r.Body, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, jtson.Issues{{Path: "", Code: jtson.CodeTruncated, Message: "max bytes exceeded"}}
	}
	return jtson.ParseFrom(r.Context(), d, jtson.YAMLBytes(data), opt)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	raw, err := j.Marshal(body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}
