package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type fakeSchedulerConfig struct {
	redisURL string
}

func (c fakeSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c fakeSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c fakeSchedulerConfig) GetAsynqQueueName() string { return "test" }
func (c fakeSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestFollowUpReminderTaskPayload(t *testing.T) {
	followUpAt := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	payload := FollowUpReminderPayload{
		LeadID:         uuid.NewString(),
		OrganizationID: uuid.NewString(),
		OwnerEmail:     "owner@example.com",
		Company:        "Acme Staffing",
		ContactName:    "Jane Miller",
		FollowUpAt:     followUpAt,
		Note:           "ask about Q4 openings",
	}

	task, err := NewFollowUpReminderTask(payload)
	if err != nil {
		t.Fatalf("NewFollowUpReminderTask() error = %v", err)
	}
	if task.Type() != TaskFollowUpReminder {
		t.Errorf("task type = %q, want %q", task.Type(), TaskFollowUpReminder)
	}

	parsed, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		t.Fatalf("ParseFollowUpReminderPayload() error = %v", err)
	}
	if parsed.OwnerEmail != payload.OwnerEmail || parsed.Company != payload.Company {
		t.Errorf("parsed payload = %+v, want %+v", parsed, payload)
	}
	if !parsed.FollowUpAt.Equal(followUpAt) {
		t.Errorf("FollowUpAt = %v, want %v", parsed.FollowUpAt, followUpAt)
	}
}

func TestScheduleFollowUpReminder(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	payload := FollowUpReminderPayload{
		LeadID:         uuid.NewString(),
		OrganizationID: uuid.NewString(),
		OwnerEmail:     "owner@example.com",
		Company:        "Acme Staffing",
		FollowUpAt:     time.Now().Add(24 * time.Hour),
	}

	if err := client.ScheduleFollowUpReminder(context.Background(), payload, payload.FollowUpAt); err != nil {
		t.Fatalf("ScheduleFollowUpReminder() error = %v", err)
	}

	if len(mr.Keys()) == 0 {
		t.Error("expected task keys in redis after enqueue, found none")
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{redisURL: ""}); err == nil {
		t.Fatal("NewClient() with empty redis url, want error")
	}
}

type captureScheduler struct {
	payloads []FollowUpReminderPayload
	runAts   []time.Time
	err      error
}

func (s *captureScheduler) ScheduleFollowUpReminder(_ context.Context, payload FollowUpReminderPayload, runAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	s.runAts = append(s.runAts, runAt)
	return nil
}

type fakeUserEmails struct {
	emails map[uuid.UUID]string
}

func (f fakeUserEmails) GetUserEmail(_ context.Context, userID uuid.UUID) (string, error) {
	email, ok := f.emails[userID]
	if !ok {
		return "", errors.New("user not found")
	}
	return email, nil
}

func TestHandleFollowUpScheduledEnqueuesReminder(t *testing.T) {
	ownerID := uuid.New()
	sched := &captureScheduler{}
	mod := NewModule(sched, fakeUserEmails{emails: map[uuid.UUID]string{ownerID: "owner@example.com"}}, logger.New("development"))

	followUpAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	err := mod.Handle(context.Background(), events.FollowUpScheduled{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         uuid.New(),
		OrganizationID: uuid.New(),
		OwnerUserID:    ownerID,
		Company:        "Acme Staffing",
		ContactName:    "Jane Miller",
		FollowUpAt:     followUpAt,
		Note:           "call back",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(sched.payloads) != 1 {
		t.Fatalf("scheduled %d reminders, want 1", len(sched.payloads))
	}
	got := sched.payloads[0]
	if got.OwnerEmail != "owner@example.com" {
		t.Errorf("OwnerEmail = %q, want owner@example.com", got.OwnerEmail)
	}
	if !sched.runAts[0].Equal(followUpAt) {
		t.Errorf("runAt = %v, want %v", sched.runAts[0], followUpAt)
	}
}

func TestHandleFollowUpScheduledUnknownOwner(t *testing.T) {
	sched := &captureScheduler{}
	mod := NewModule(sched, fakeUserEmails{}, logger.New("development"))

	err := mod.Handle(context.Background(), events.FollowUpScheduled{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		OwnerUserID: uuid.New(),
		FollowUpAt:  time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatal("Handle() with unknown owner, want error")
	}
	if len(sched.payloads) != 0 {
		t.Errorf("scheduled %d reminders, want 0", len(sched.payloads))
	}
}
