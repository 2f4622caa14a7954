package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "leads.followup.reminder"

// FollowUpReminderPayload carries everything the worker needs to send the
// reminder without touching the database. The owner email is resolved at
// enqueue time.
type FollowUpReminderPayload struct {
	LeadID         string    `json:"leadId"`
	OrganizationID string    `json:"organizationId"`
	OwnerEmail     string    `json:"ownerEmail"`
	Company        string    `json:"company"`
	ContactName    string    `json:"contactName"`
	FollowUpAt     time.Time `json:"followUpAt"`
	Note           string    `json:"note,omitempty"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
