// Package scheduler enqueues and executes delayed follow-up reminders
// through asynq on Redis. The API process enqueues; the worker binary
// consumes.
package scheduler

import (
	"context"

	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// UserEmailReader resolves a user's email address for reminder delivery.
type UserEmailReader interface {
	GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error)
}

// Module subscribes to follow-up events and schedules reminder tasks.
type Module struct {
	client ReminderScheduler
	users  UserEmailReader
	log    *logger.Logger
}

// NewModule creates the scheduling event subscriber. The client may be nil
// when Redis is not configured; events are then logged and dropped.
func NewModule(client ReminderScheduler, users UserEmailReader, log *logger.Logger) *Module {
	return &Module{client: client, users: users, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "scheduler" }

// RegisterHandlers subscribes to the domain events that schedule work.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.FollowUpScheduled{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.FollowUpScheduled:
		return m.handleFollowUpScheduled(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleFollowUpScheduled(ctx context.Context, e events.FollowUpScheduled) error {
	if m.client == nil {
		m.log.Warn("follow-up reminder dropped, scheduler not configured",
			"leadId", e.LeadID, "followUpAt", e.FollowUpAt)
		return nil
	}

	ownerEmail, err := m.users.GetUserEmail(ctx, e.OwnerUserID)
	if err != nil {
		m.log.Error("failed to resolve owner email for follow-up reminder",
			"leadId", e.LeadID, "userId", e.OwnerUserID, "error", err)
		return err
	}

	payload := FollowUpReminderPayload{
		LeadID:         e.LeadID.String(),
		OrganizationID: e.OrganizationID.String(),
		OwnerEmail:     ownerEmail,
		Company:        e.Company,
		ContactName:    e.ContactName,
		FollowUpAt:     e.FollowUpAt,
		Note:           e.Note,
	}

	if err := m.client.ScheduleFollowUpReminder(ctx, payload, e.FollowUpAt); err != nil {
		m.log.Error("failed to enqueue follow-up reminder",
			"leadId", e.LeadID, "followUpAt", e.FollowUpAt, "error", err)
		return err
	}

	m.log.Info("follow-up reminder scheduled",
		"leadId", e.LeadID, "followUpAt", e.FollowUpAt)
	return nil
}
