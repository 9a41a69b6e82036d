package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/ledger"
	"github.com/connectfe/connectfe-api/internal/model"
	"github.com/connectfe/connectfe-api/internal/queue"
	"github.com/connectfe/connectfe-api/internal/repository"
	queue_publisher "github.com/connectfe/connectfe-api/internal/service"
)

// RaffleHandler serves the church-side raffle admin endpoints: create,
// draw, cancel and the purchase dashboard.
type RaffleHandler struct {
	Ledger    *ledger.Ledger
	Purchases *repository.PurchaseRepo
}

func NewRaffleHandler(l *ledger.Ledger, p *repository.PurchaseRepo) *RaffleHandler {
	return &RaffleHandler{Ledger: l, Purchases: p}
}

// raffleView is the JSON shape of a raffle across all endpoints.
type raffleView struct {
	ID               uint64     `json:"id"`
	ChurchID         uint64     `json:"church_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	Prize            string     `json:"prize"`
	PrizeImageURL    *string    `json:"prize_image_url,omitempty"`
	TicketPriceCents uint32     `json:"ticket_price_cents"`
	TotalTickets     uint32     `json:"total_tickets"`
	Status           string     `json:"status"`
	WinnerNumber     *uint32    `json:"winner_number,omitempty"`
	WinnerUserID     *uint64    `json:"winner_user_id,omitempty"`
	DrawnAt          *time.Time `json:"drawn_at,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toRaffleView(rf *model.Raffle) raffleView {
	return raffleView{
		ID:               rf.ID,
		ChurchID:         rf.ChurchID,
		Title:            rf.Title,
		Description:      rf.Description,
		Prize:            rf.Prize,
		PrizeImageURL:    rf.PrizeImageURL,
		TicketPriceCents: rf.TicketPriceCents,
		TotalTickets:     rf.TotalTickets,
		Status:           rf.Status,
		WinnerNumber:     rf.WinnerNumber,
		WinnerUserID:     rf.WinnerUserID,
		DrawnAt:          rf.DrawnAt,
		EndDate:          rf.EndDate,
		CreatedAt:        rf.CreatedAt,
		UpdatedAt:        rf.UpdatedAt,
	}
}

// maxTotalTickets caps the number range of a single raffle.  Church
// raffles sell at most a few thousand numbers; the cap keeps grid reads
// and quick-pick allocations proportional to real raffles instead of
// whatever fits in a uint32.
const maxTotalTickets = 100000

type createRaffleReq struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Prize            string     `json:"prize"`
	PrizeImageURL    *string    `json:"prize_image_url"`
	TicketPriceCents uint32     `json:"ticket_price_cents"`
	TotalTickets     uint32     `json:"total_tickets"`
	EndDate          *time.Time `json:"end_date"`
}

// Create registers a new raffle owned by the calling church.
func (h *RaffleHandler) Create(c echo.Context) error {
	churchID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRaffleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Prize = strings.TrimSpace(req.Prize)
	if req.Title == "" || req.Prize == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and prize required"})
	}
	if req.TotalTickets < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_tickets must be at least 1"})
	}
	if req.TotalTickets > maxTotalTickets {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_tickets too large"})
	}
	if req.TicketPriceCents < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_price_cents must be at least 1"})
	}
	if req.EndDate != nil && req.EndDate.Before(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be in the future"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rf := &model.Raffle{
		ChurchID:         churchID,
		Title:            req.Title,
		Description:      req.Description,
		Prize:            req.Prize,
		PrizeImageURL:    req.PrizeImageURL,
		TicketPriceCents: req.TicketPriceCents,
		TotalTickets:     req.TotalTickets,
		EndDate:          req.EndDate,
	}
	created, err := h.Ledger.CreateRaffle(ctx, rf)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, toRaffleView(created))
}

// Draw runs the winner selection for a raffle.  A repeated draw on a
// DRAWN raffle is not an error: the stored winner comes back with an
// already_drawn marker so retried requests stay idempotent.
func (h *RaffleHandler) Draw(c echo.Context) error {
	churchID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	winner, err := h.Ledger.DrawWinner(ctx, raffleID, churchID)
	if err != nil {
		var already *ledger.AlreadyDrawnError
		if errors.As(err, &already) {
			return c.JSON(http.StatusOK, echo.Map{
				"winner":        already.Winner,
				"already_drawn": true,
			})
		}
		return ledgerError(c, err)
	}

	h.announceDraw(raffleID, winner)

	return c.JSON(http.StatusOK, echo.Map{
		"winner":        winner,
		"already_drawn": false,
	})
}

// announceDraw publishes the raffle.drawn event after the draw has
// committed.  Publishing is best-effort and runs detached from the
// request so a slow broker never delays the response.
func (h *RaffleHandler) announceDraw(raffleID uint64, w *model.Winner) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rf, err := h.Ledger.GetRaffle(ctx, raffleID)
		if err != nil {
			return
		}
		sold, _, err := h.Ledger.SoldNumbers(ctx, raffleID)
		if err != nil {
			return
		}
		_ = queue_publisher.PublishRaffleDrawn(ctx, queue.RaffleDrawnEvent{
			RaffleID:     rf.ID,
			ChurchID:     rf.ChurchID,
			Title:        rf.Title,
			Prize:        rf.Prize,
			TicketNumber: w.TicketNumber,
			PurchaserID:  w.PurchaserID,
			SoldTickets:  uint32(len(sold)),
			TotalTickets: rf.TotalTickets,
			DrawnAt:      w.DrawnAt.UTC().Format(time.RFC3339),
		})
	}()
}

// Cancel moves a raffle to CANCELLED.
func (h *RaffleHandler) Cancel(c echo.Context) error {
	churchID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rf, err := h.Ledger.CancelRaffle(ctx, raffleID, churchID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toRaffleView(rf))
}

// ListPurchases returns every purchase of a raffle to its issuing church.
func (h *RaffleHandler) ListPurchases(c echo.Context) error {
	churchID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raffleID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid raffle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	purchases, err := h.Purchases.ListByRaffleForChurch(ctx, raffleID, churchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "raffle not found"})
		}
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"raffle_id": raffleID,
		"purchases": purchases,
	})
}
