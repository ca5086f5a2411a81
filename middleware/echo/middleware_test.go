package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nixCodeX/jtson"
	echomw "github.com/nixCodeX/jtson/middleware/echo"
)

var pingDecl = jtson.MustCompile(`ping = { id: string, n: integer }`).MustLookup("ping")

func post(body, contentType string) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/ping", func(c echo.Context) error {
		v, ok := echomw.Typed(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, v.(*jtson.Record).Str("id"))
	}, echomw.Decode(pingDecl))
	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestDecode(t *testing.T) {
	rr := post(`{"id":"e1","n":1}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "e1", rr.Body.String())

	rr = post("id: e2\nn: 2\n", "application/yaml")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "e2", rr.Body.String())

	rr = post(`{"id":"e3"}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), jtson.CodeMissingField)
}
