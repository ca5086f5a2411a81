package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/nixCodeX/jtson"
	"github.com/nixCodeX/jtson/middleware"
)

var orderDecl = jtson.MustCompile(`
order = { id: string, lines: [line], note: opt<string> }
line = { sku: string, qty: integer }
`).MustLookup("order")

func serve(t *testing.T, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := middleware.Decode(orderDecl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.TypedFromContext(r.Context())
		require.True(t, ok)
		rec := v.(*jtson.Record)
		_, _ = w.Write([]byte(rec.Str("id")))
	}))
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDecode_PassesTypedValue(t *testing.T) {
	rr := serve(t, "application/json", `{"id":"o-1","lines":[{"sku":"a","qty":2}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "o-1", rr.Body.String())
}

func TestDecode_YAMLBody(t *testing.T) {
	rr := serve(t, "application/yaml", "id: o-2\nlines:\n  - {sku: b, qty: 1}\n")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "o-2", rr.Body.String())
}

func TestDecode_RejectsWithIssues(t *testing.T) {
	rr := serve(t, "application/json", `{"id":"o-3","lines":[{"sku":"a","qty":"two"}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var payload struct {
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, j.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Issues, 1)
	require.Equal(t, "/lines/0/qty", payload.Issues[0].Path)
	require.Equal(t, jtson.CodeTypeMismatch, payload.Issues[0].Code)
}

func TestDecode_DuplicateKeysRejectedByDefault(t *testing.T) {
	rr := serve(t, "application/json", `{"id":"a","id":"b","lines":[]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), jtson.CodeDuplicateKey)
}

func TestErrorPayload(t *testing.T) {
	p := middleware.ErrorPayload([]jtson.Issue{{Path: "/x", Code: jtson.CodeUnknownTag, Message: "m", Hint: "h"}})
	issues := p["issues"].([]map[string]any)
	require.Equal(t, "h", issues[0]["hint"])
	require.Equal(t, "/x", issues[0]["path"])
}
