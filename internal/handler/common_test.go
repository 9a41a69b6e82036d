package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfe/connectfe-api/internal/ledger"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLedgerErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", ledger.ErrRaffleNotFound, http.StatusNotFound},
		{"not active", ledger.ErrRaffleNotActive, http.StatusConflict},
		{"limit", ledger.ErrPurchaseLimitExceeded, http.StatusBadRequest},
		{"availability", ledger.ErrInsufficientAvailability, http.StatusBadRequest},
		{"no participants", ledger.ErrNoParticipants, http.StatusConflict},
		{"forbidden", ledger.ErrForbidden, http.StatusForbidden},
		{"out of range", &ledger.NumbersOutOfRangeError{Numbers: []uint32{99}}, http.StatusBadRequest},
		{"sold", &ledger.NumbersSoldError{Numbers: []uint32{7}}, http.StatusConflict},
		{"storage", ledger.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, rec := newTestContext(t)
			require.NoError(t, ledgerError(ctx, c.err))
			assert.Equal(t, c.code, rec.Code)
		})
	}
}

func TestLedgerErrorIncludesDisputedNumbers(t *testing.T) {
	ctx, rec := newTestContext(t)
	require.NoError(t, ledgerError(ctx, &ledger.NumbersSoldError{Numbers: []uint32{3, 7}}))
	assert.Contains(t, rec.Body.String(), `"numbers":[3,7]`)
}

func TestGetUserIDClaimShapes(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Set("user_id", float64(42))
	id, err := getUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	ctx.Set("user_id", "17")
	id, err = getUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	ctx.Set("user_id", "not-a-number")
	_, err = getUserID(ctx)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.SetParamNames("id")
	ctx.SetParamValues("12")
	id, ok := pathID(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	ctx.SetParamValues("zero")
	_, ok = pathID(ctx)
	assert.False(t, ok)

	ctx.SetParamValues("0")
	_, ok = pathID(ctx)
	assert.False(t, ok)
}
