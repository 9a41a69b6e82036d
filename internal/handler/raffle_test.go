package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfe/connectfe-api/internal/ledger"
	"github.com/connectfe/connectfe-api/internal/repository"
)

func newRaffleHandler(t *testing.T) *RaffleHandler {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	purchases := repository.NewPurchaseRepo(db)
	led := ledger.New(db, repository.NewRaffleRepo(db), purchases, 10)
	return NewRaffleHandler(led, purchases)
}

func postCreateRaffle(t *testing.T, h *RaffleHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/raffles", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(9))
	require.NoError(t, h.Create(c))
	return rec
}

// No database expectations are registered in these tests: requests this
// malformed must be rejected before anything touches storage.
func TestCreateRaffleRejectsOversizedRange(t *testing.T) {
	h := newRaffleHandler(t)
	rec := postCreateRaffle(t, h,
		`{"title":"Mega","prize":"Car","ticket_price_cents":500,"total_tickets":4294967295}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_tickets too large")
}

func TestCreateRaffleRejectsZeroTickets(t *testing.T) {
	h := newRaffleHandler(t)
	rec := postCreateRaffle(t, h,
		`{"title":"Empty","prize":"Basket","ticket_price_cents":500,"total_tickets":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRaffleRequiresTitleAndPrize(t *testing.T) {
	h := newRaffleHandler(t)
	rec := postCreateRaffle(t, h,
		`{"title":"  ","prize":"","ticket_price_cents":500,"total_tickets":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
