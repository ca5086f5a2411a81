// Package echomw adapts jtson request decoding to echo handlers.
package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nixCodeX/jtson"
	"github.com/nixCodeX/jtson/middleware"
)

// Decode decodes the request body against d with opt, or with
// middleware.DefaultParseOpt when opt is omitted. Rejected bodies get a 400
// response carrying middleware.ErrorPayload.
func Decode(d *jtson.Decl, opt ...jtson.ParseOpt) echo.MiddlewareFunc {
	po := middleware.DefaultParseOpt()
	if len(opt) > 0 {
		po = opt[len(opt)-1]
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.DecodeRequest(c.Request(), d, po)
			if err != nil {
				if iss, ok := jtson.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return err
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithTyped(c.Request().Context(), v)))
			return next(c)
		}
	}
}

// Typed fetches the value stored by Decode.
func Typed(c echo.Context) (jtson.Typed, bool) {
	return middleware.TypedFromContext(c.Request().Context())
}
