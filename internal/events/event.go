// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"staffing_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// EmailVerificationRequested is published when a user asks for a fresh
// verification email.
type EmailVerificationRequested struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e EmailVerificationRequested) EventName() string { return "auth.email.verification_requested" }

// PasswordResetRequested is published when a user requests a password reset.
type PasswordResetRequested struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken"`
}

func (e PasswordResetRequested) EventName() string { return "auth.password.reset_requested" }

// =============================================================================
// Identity Domain Events
// =============================================================================

// OrganizationCreated is published when a new organization is provisioned.
// Published synchronously so that downstream seeding (dropdown options)
// completes before the provisioning response is written.
type OrganizationCreated struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	CreatedBy      uuid.UUID `json:"createdBy"`
}

func (e OrganizationCreated) EventName() string { return "identity.organization.created" }

// OrganizationInviteCreated is published when a teammate invite is created.
type OrganizationInviteCreated struct {
	BaseEvent
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	Email            string    `json:"email"`
	InviteToken      string    `json:"inviteToken"`
}

func (e OrganizationInviteCreated) EventName() string { return "identity.invite.created" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is captured.
type LeadCreated struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Company        string    `json:"company"`
	ContactName    string    `json:"contactName"`
	Source         string    `json:"source,omitempty"`
	CreatedBy      uuid.UUID `json:"createdBy"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// CallLogged is published when a sales call is appended to a lead's history.
type CallLogged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Status         string    `json:"status"`
	Rating         string    `json:"rating"`
	CallType       string    `json:"callType"`
	UserID         uuid.UUID `json:"userId"`
}

func (e CallLogged) EventName() string { return "leads.call.logged" }

// FollowUpScheduled is published when a logged note carries a follow-up date.
// The scheduler module enqueues the reminder task.
type FollowUpScheduled struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OwnerUserID    uuid.UUID `json:"ownerUserId"`
	Company        string    `json:"company"`
	ContactName    string    `json:"contactName"`
	FollowUpAt     time.Time `json:"followUpAt"`
	Note           string    `json:"note,omitempty"`
}

func (e FollowUpScheduled) EventName() string { return "leads.followup.scheduled" }
