package scheduler

import (
	"context"
	"fmt"
	"strings"

	"staffing_crm_backend/internal/email"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// WorkerConfig combines the settings the reminder worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.NotificationConfig
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	cfg    WorkerConfig
	log    *logger.Logger
}

func NewWorker(cfg WorkerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	if payload.OwnerEmail == "" {
		w.log.Warn("follow-up reminder without owner email dropped", "leadId", payload.LeadID)
		return nil
	}

	leadURL := w.buildLeadURL(payload.LeadID)
	followUpDate := payload.FollowUpAt.Format("2006-01-02")

	if err := w.sender.SendFollowUpReminderEmail(ctx, payload.OwnerEmail, payload.Company, payload.ContactName, followUpDate, payload.Note, leadURL); err != nil {
		w.log.Error("failed to send follow-up reminder email",
			"leadId", payload.LeadID,
			"email", payload.OwnerEmail,
			"error", err,
		)
		return err
	}

	w.log.Info("follow-up reminder email sent", "leadId", payload.LeadID, "email", payload.OwnerEmail)
	return nil
}

func (w *Worker) buildLeadURL(leadID string) string {
	base := strings.TrimRight(w.cfg.GetAppBaseURL(), "/")
	return base + "/leads/" + leadID
}
