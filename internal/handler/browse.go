package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/ledger"
)

// BrowseHandler serves the unauthenticated raffle catalog.  These
// endpoints sit behind the Redis response cache; the sold-number grid
// may therefore lag a few seconds behind the ledger, which is fine for
// display purposes.
type BrowseHandler struct {
	Ledger *ledger.Ledger
}

func NewBrowseHandler(l *ledger.Ledger) *BrowseHandler {
	return &BrowseHandler{Ledger: l}
}

// ListRaffles returns all raffles, newest first.
func (h *BrowseHandler) ListRaffles(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	raffles, err := h.Ledger.ListRaffles(ctx)
	if err != nil {
		return ledgerError(c, err)
	}
	views := make([]raffleView, 0, len(raffles))
	for i := range raffles {
		views = append(views, toRaffleView(&raffles[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"raffles": views})
}

// GetRaffle returns one raffle by id.
func (h *BrowseHandler) GetRaffle(c echo.Context) error {
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rf, err := h.Ledger.GetRaffle(ctx, raffleID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toRaffleView(rf))
}

// SoldNumbers returns the sold set of a raffle so clients can render
// the ticket grid.
func (h *BrowseHandler) SoldNumbers(c echo.Context) error {
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sold, total, err := h.Ledger.SoldNumbers(ctx, raffleID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"raffle_id":     raffleID,
		"total_tickets": total,
		"sold":          sold,
		"sold_count":    len(sold),
	})
}
