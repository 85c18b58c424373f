// Package audit defines the audit trail contract. Recording is mandatory
// for every profile and case mutation: a failed write must surface to the
// caller as an operation failure, never as a logged warning.
package audit

import (
	"context"
	"time"
)

// Actions recorded by the certification core.
const (
	ActionProfileCreated    = "PROFILE_CREATED"
	ActionProfileUpdated    = "PROFILE_UPDATED"
	ActionProfileTrashed    = "PROFILE_TRASHED"
	ActionProfileRestored   = "PROFILE_RESTORED"
	ActionProfilePurged     = "PROFILE_PURGED"
	ActionCaseCreated       = "CASE_CREATED"
	ActionCaseStatusChanged = "CASE_STATUS_CHANGED"
	ActionCaseAssigned      = "CASE_ASSIGNED"
)

// Event is one audit trail entry.
type Event struct {
	ID             string      `json:"id,omitempty"`
	Actor          string      `json:"actor,omitempty"`
	OrganizationID int64       `json:"organization_id,omitempty"`
	Action         string      `json:"action"`
	EntityType     string      `json:"entity_type"`
	EntityID       string      `json:"entity_id"`
	OldValue       interface{} `json:"old_value,omitempty"`
	NewValue       interface{} `json:"new_value,omitempty"`
	RecordedAt     time.Time   `json:"recorded_at,omitempty"`
}

// Sink records audit events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}
