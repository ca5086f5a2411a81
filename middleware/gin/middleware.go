// Package ginmw adapts jtson request decoding to gin handlers.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nixCodeX/jtson"
	"github.com/nixCodeX/jtson/middleware"
)

const typedKey = "jtson.typed"

// Decode decodes the request body against d with opt, or with
// middleware.DefaultParseOpt when opt is omitted. The value is stored on the
// gin context and in the request context; rejected bodies abort with 400.
func Decode(d *jtson.Decl, opt ...jtson.ParseOpt) gin.HandlerFunc {
	po := middleware.DefaultParseOpt()
	if len(opt) > 0 {
		po = opt[len(opt)-1]
	}
	return func(c *gin.Context) {
		v, err := middleware.DecodeRequest(c.Request, d, po)
		if err != nil {
			if iss, ok := jtson.AsIssues(err); ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				return
			}
			jtson.Logger().Error("decode request body", zap.String("decl", d.Name()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
			return
		}
		c.Set(typedKey, v)
		c.Request = c.Request.WithContext(middleware.ContextWithTyped(c.Request.Context(), v))
		c.Next()
	}
}

// Typed returns the value stored by Decode.
func Typed(c *gin.Context) (jtson.Typed, bool) {
	v, ok := c.Get(typedKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(jtson.Typed)
	return t, ok
}
