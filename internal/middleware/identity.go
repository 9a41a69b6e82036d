package middleware

// identity.go holds helpers shared across middleware files.  The rate
// limiter keys on the requesting user when one is authenticated and on
// "anon" otherwise.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the context values set
// by JWTAuth.  JWT numeric claims decode as float64.  Returns "anon"
// when no user is authenticated.
func currentUserID(c echo.Context) string {
	switch t := c.Get("user_id").(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		if t > 0 {
			return strconv.FormatUint(uint64(t), 10)
		}
	case uint64:
		if t > 0 {
			return strconv.FormatUint(t, 10)
		}
	}
	return "anon"
}
