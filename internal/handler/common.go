package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/ledger"
)

// getUserID extracts the authenticated user ID stored in the context by
// the JWT middleware.  Numeric JWT claims decode as float64; string
// subjects are parsed for safety.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v > 0 {
			return uint64(v), nil
		}
	case uint64:
		if v > 0 {
			return v, nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, echo.ErrUnauthorized
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ledgerError translates the ledger's error taxonomy into an HTTP
// response naming the exact failing reason.  Raffle integrity disputes
// are only resolvable with precise errors, so nothing collapses into a
// generic message.
func ledgerError(c echo.Context, err error) error {
	var (
		outOfRange *ledger.NumbersOutOfRangeError
		sold       *ledger.NumbersSoldError
	)
	switch {
	case errors.Is(err, ledger.ErrRaffleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "raffle not found"})
	case errors.Is(err, ledger.ErrRaffleNotActive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "raffle not active"})
	case errors.Is(err, ledger.ErrPurchaseLimitExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase limit exceeded"})
	case errors.Is(err, ledger.ErrInsufficientAvailability):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient availability"})
	case errors.Is(err, ledger.ErrNoParticipants):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no participants"})
	case errors.Is(err, ledger.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &outOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "numbers out of range",
			"numbers": outOfRange.Numbers,
		})
	case errors.As(err, &sold):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "numbers already sold",
			"numbers": sold.Numbers,
		})
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
