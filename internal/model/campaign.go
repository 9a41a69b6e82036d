package model

import "time"

// Campaign statuses as stored in campaigns.status.
const (
	CampaignActive    = "ACTIVE"
	CampaignCompleted = "COMPLETED"
)

// Campaign is a donation-goal tracking entity owned by a church.
// RaisedCents is incremented only by confirmed donations and never
// decreases.  The status flips to COMPLETED once the goal is reached.
type Campaign struct {
	ID          uint64     // campaigns.id
	ChurchID    uint64     // campaigns.church_id
	Title       string     // campaigns.title
	Description *string    // campaigns.description (nullable)
	GoalCents   uint64     // campaigns.goal_cents
	RaisedCents uint64     // campaigns.raised_cents
	DonorCount  uint32     // campaigns.donor_count
	EndDate     *time.Time // campaigns.end_date (nullable)
	Status      string     // campaigns.status
	CreatedAt   time.Time  // campaigns.created_at
	UpdatedAt   time.Time  // campaigns.updated_at
}

// Donation is the audit record behind each increment of RaisedCents.
type Donation struct {
	ID          uint64    // donations.id
	CampaignID  uint64    // donations.campaign_id
	UserID      uint64    // donations.user_id
	AmountCents uint64    // donations.amount_cents
	CreatedAt   time.Time // donations.created_at
}
