package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/model"
	"github.com/connectfe/connectfe-api/internal/repository"
)

// CampaignHandler serves donation campaigns: church-side creation and
// member-side donations, plus the public catalog.
type CampaignHandler struct {
	Campaigns *repository.CampaignRepo
}

func NewCampaignHandler(r *repository.CampaignRepo) *CampaignHandler {
	return &CampaignHandler{Campaigns: r}
}

type campaignView struct {
	ID          uint64     `json:"id"`
	ChurchID    uint64     `json:"church_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	GoalCents   uint64     `json:"goal_cents"`
	RaisedCents uint64     `json:"raised_cents"`
	DonorCount  uint32     `json:"donor_count"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toCampaignView(cp *model.Campaign) campaignView {
	return campaignView{
		ID:          cp.ID,
		ChurchID:    cp.ChurchID,
		Title:       cp.Title,
		Description: cp.Description,
		GoalCents:   cp.GoalCents,
		RaisedCents: cp.RaisedCents,
		DonorCount:  cp.DonorCount,
		EndDate:     cp.EndDate,
		Status:      cp.Status,
		CreatedAt:   cp.CreatedAt,
		UpdatedAt:   cp.UpdatedAt,
	}
}

type createCampaignReq struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	GoalCents   uint64     `json:"goal_cents"`
	EndDate     *time.Time `json:"end_date"`
}

// Create registers a new donation campaign owned by the calling church.
func (h *CampaignHandler) Create(c echo.Context) error {
	churchID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCampaignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.GoalCents < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "goal_cents must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cp := &model.Campaign{
		ChurchID:    churchID,
		Title:       req.Title,
		Description: req.Description,
		GoalCents:   req.GoalCents,
		EndDate:     req.EndDate,
	}
	if err := h.Campaigns.Create(ctx, cp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create campaign failed"})
	}
	return c.JSON(http.StatusCreated, toCampaignView(cp))
}

type donateReq struct {
	AmountCents uint64 `json:"amount_cents"`
}

type donationView struct {
	ID          uint64    `json:"id"`
	CampaignID  uint64    `json:"campaign_id"`
	UserID      uint64    `json:"user_id"`
	AmountCents uint64    `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// Donate records a donation to a campaign and returns the updated
// totals.  Donations to COMPLETED campaigns are rejected.
func (h *CampaignHandler) Donate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	campaignID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}
	var req donateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AmountCents < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cp, d, err := h.Campaigns.Donate(ctx, campaignID, userID, req.AmountCents)
	if err != nil {
		switch err {
		case repository.ErrCampaignNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		case repository.ErrCampaignClosed:
			return c.JSON(http.StatusConflict, echo.Map{"error": "campaign closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "donation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"campaign": toCampaignView(cp),
		"donation": donationView{
			ID:          d.ID,
			CampaignID:  d.CampaignID,
			UserID:      d.UserID,
			AmountCents: d.AmountCents,
			CreatedAt:   d.CreatedAt,
		},
	})
}

// List returns the public campaign catalog, newest first.
func (h *CampaignHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	campaigns, err := h.Campaigns.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]campaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, toCampaignView(&campaigns[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": views})
}

// Get returns one campaign by id.
func (h *CampaignHandler) Get(c echo.Context) error {
	campaignID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cp, err := h.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if err == repository.ErrCampaignNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCampaignView(cp))
}
