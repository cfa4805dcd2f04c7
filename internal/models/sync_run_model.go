package models

import "time"

type SyncRun struct {
	ID              int64     `db:"id" json:"id"`
	RunID           string    `db:"run_id" json:"run_id"`
	OrganizationURN string    `db:"organization_urn" json:"organization_urn"`
	Trigger         string    `db:"trigger" json:"trigger"` // callback, scheduled, manual
	Fetched         int       `db:"fetched" json:"fetched"`
	Skipped         int       `db:"skipped" json:"skipped"`
	Upserted        int       `db:"upserted" json:"upserted"`
	ErrorMessage    string    `db:"error_message" json:"error_message"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const (
	SyncTriggerCallback  = "callback"
	SyncTriggerScheduled = "scheduled"
	SyncTriggerManual    = "manual"
)
