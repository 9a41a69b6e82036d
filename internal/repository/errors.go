// Package repository defines error values reused across repositories.
// These sentinels let higher layers such as the ledger and handlers
// distinguish failure scenarios without string matching: ErrForbidden
// marks an operation on a resource owned by someone else, the not-found
// sentinels mark unknown identifiers.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrRaffleNotFound indicates that a raffle was not located in the DB.
var ErrRaffleNotFound = errors.New("raffle not found")

// ErrCampaignNotFound indicates that a campaign was not located in the DB.
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrCampaignClosed is returned when a donation targets a campaign that
// is no longer ACTIVE.
var ErrCampaignClosed = errors.New("campaign closed")

// ErrTokenInvalid covers every way a refresh token can be unusable:
// unknown, revoked or expired. Callers must not learn which, so a
// stolen token cannot be probed for liveness.
var ErrTokenInvalid = errors.New("refresh token invalid")
