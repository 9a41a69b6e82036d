package repository

import (
	"context"
	"database/sql"

	"github.com/connectfe/connectfe-api/internal/model"
)

// CampaignRepo manages donation campaigns and their donation records.
// raised_cents is only ever incremented, and only inside Donate's
// transaction, so the total can never drift from the donation rows.
type CampaignRepo struct {
	db *sql.DB
}

// NewCampaignRepo returns a CampaignRepo bound to the given database.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `id, church_id, title, description, goal_cents, raised_cents,
       donor_count, end_date, status, created_at, updated_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*model.Campaign, error) {
	var (
		c       model.Campaign
		desc    sql.NullString
		endDate sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ChurchID, &c.Title, &desc, &c.GoalCents, &c.RaisedCents,
		&c.DonorCount, &endDate, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		c.Description = &d
	}
	if endDate.Valid {
		t := endDate.Time.UTC()
		c.EndDate = &t
	}
	return &c, nil
}

// Create inserts a new campaign and populates generated fields.
func (r *CampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	const q = `INSERT INTO campaigns (church_id, title, description, goal_cents, end_date) VALUES (?, ?, ?, ?, ?)`
	var end interface{}
	if c.EndDate != nil {
		end = c.EndDate.UTC().Format("2006-01-02 15:04:05")
	}
	res, err := r.db.ExecContext(ctx, q, c.ChurchID, c.Title, c.Description, c.GoalCents, end)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// GetByID fetches a campaign, ErrCampaignNotFound when missing.
func (r *CampaignRepo) GetByID(ctx context.Context, id uint64) (*model.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrCampaignNotFound
	}
	return c, err
}

// List returns all campaigns, newest first.
func (r *CampaignRepo) List(ctx context.Context) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Donate records a donation and bumps the campaign totals in one
// transaction.  The campaign row is locked first so two concurrent
// donations cannot lose an increment, and the status flips to COMPLETED
// exactly when raised_cents reaches the goal.  Returns the updated
// campaign and the donation audit record.  ErrCampaignNotFound /
// ErrCampaignClosed mark the two validation failures.
func (r *CampaignRepo) Donate(ctx context.Context, campaignID, userID, amountCents uint64) (*model.Campaign, *model.Donation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	c, err := scanCampaign(tx.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ? FOR UPDATE`, campaignID))
	if err == sql.ErrNoRows {
		return nil, nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if c.Status != model.CampaignActive {
		return nil, nil, ErrCampaignClosed
	}

	d := &model.Donation{CampaignID: campaignID, UserID: userID, AmountCents: amountCents}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO donations (campaign_id, user_id, amount_cents) VALUES (?, ?, ?)`,
		d.CampaignID, d.UserID, d.AmountCents)
	if err != nil {
		return nil, nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, nil, err
	}
	d.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM donations WHERE id = ?`, d.ID).Scan(&d.CreatedAt); err != nil {
		return nil, nil, err
	}

	c.RaisedCents += amountCents
	c.DonorCount++
	if c.RaisedCents >= c.GoalCents {
		c.Status = model.CampaignCompleted
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE campaigns SET raised_cents = ?, donor_count = ?, status = ? WHERE id = ?`,
		c.RaisedCents, c.DonorCount, c.Status, campaignID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	return c, d, nil
}
