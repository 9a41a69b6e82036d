package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/ledger"
	"github.com/connectfe/connectfe-api/internal/repository"
)

// PurchaseHandler serves the member-side ticket endpoints: reserving
// numbers, quick-pick suggestions and the purchase history.
type PurchaseHandler struct {
	Ledger    *ledger.Ledger
	Purchases *repository.PurchaseRepo
}

func NewPurchaseHandler(l *ledger.Ledger, p *repository.PurchaseRepo) *PurchaseHandler {
	return &PurchaseHandler{Ledger: l, Purchases: p}
}

type reserveReq struct {
	Numbers       []uint32 `json:"numbers"`
	PaymentMethod string   `json:"payment_method"`
}

type purchaseView struct {
	ID            uint64    `json:"id"`
	RaffleID      uint64    `json:"raffle_id"`
	UserID        uint64    `json:"user_id"`
	Numbers       []uint32  `json:"numbers"`
	PaymentMethod string    `json:"payment_method"`
	AmountCents   uint32    `json:"amount_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// Reserve buys the requested numbers for the calling member, all or
// nothing.  The response carries the purchase plus the raffle's new
// sold count so the client can refresh its grid without another call.
func (h *PurchaseHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Numbers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "numbers required"})
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = "PIX"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	purchase, soldCount, err := h.Ledger.ReserveTickets(ctx, raffleID, req.Numbers, userID, method)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"purchase": purchaseView{
			ID:            purchase.ID,
			RaffleID:      purchase.RaffleID,
			UserID:        purchase.UserID,
			Numbers:       purchase.Numbers,
			PaymentMethod: purchase.PaymentMethod,
			AmountCents:   purchase.AmountCents,
			CreatedAt:     purchase.CreatedAt,
		},
		"sold_count": soldCount,
	})
}

// QuickPick suggests unsold numbers without reserving anything.  The
// count query parameter defaults to 1.
func (h *PurchaseHandler) QuickPick(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}
	count := 1
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be a positive integer"})
		}
		count = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	numbers, err := h.Ledger.QuickPick(ctx, raffleID, count)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"raffle_id": raffleID,
		"numbers":   numbers,
	})
}

// MyTickets lists the calling member's purchases, newest first.
func (h *PurchaseHandler) MyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	purchases, err := h.Purchases.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"purchases": purchases})
}
