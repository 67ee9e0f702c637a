package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/auth"
	"github.com/teamsync/backend/internal/notifications"
	"github.com/teamsync/backend/pkg/queue"
)

// NotificationProcessor fans announcement and event jobs out into per-user
// notification rows and optional email delivery.
type NotificationProcessor struct {
	notifRepo *notifications.Repository
	userRepo  *auth.Repository
	mailer    *Mailer
	queue     *queue.Queue
	logger    *zap.Logger
}

// NewNotificationProcessor creates a notification fan-out processor.
func NewNotificationProcessor(notifRepo *notifications.Repository, userRepo *auth.Repository, mailer *Mailer, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{notifRepo: notifRepo, userRepo: userRepo, mailer: mailer, queue: q, logger: logger}
}

// Process executes one job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeNotification:
		return p.processNotification(ctx, job)
	case queue.JobTypeEmail:
		return p.processEmail(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *NotificationProcessor) processNotification(ctx context.Context, job *queue.Job) error {
	var payload queue.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if len(payload.RecipientIDs) == 0 {
		return nil
	}

	record, err := json.Marshal(map[string]interface{}{
		"group_id":   payload.GroupID,
		"subject_id": payload.SubjectID,
		"title":      payload.Title,
		"body":       payload.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := p.notifRepo.CreateBatch(ctx, payload.RecipientIDs, payload.Kind, record); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}

	if p.mailer == nil || !p.mailer.Enabled() {
		p.logger.Info("notifications written",
			zap.String("kind", payload.Kind),
			zap.Int("recipients", len(payload.RecipientIDs)))
		return nil
	}

	// Email delivery is best-effort: a bounced address must not fail the job
	// after the rows are already written.
	sent := 0
	for _, id := range payload.RecipientIDs {
		u, err := p.userRepo.GetByID(ctx, id)
		if err != nil {
			p.logger.Warn("recipient lookup failed", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		ok, err := p.mailer.Send(u.Email, payload.Title, payload.Body)
		if err != nil {
			p.logger.Warn("email send failed", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		if ok {
			sent++
		}
	}
	p.logger.Info("notifications processed",
		zap.String("kind", payload.Kind),
		zap.Int("recipients", len(payload.RecipientIDs)),
		zap.Int("emails_sent", sent))
	return nil
}

func (p *NotificationProcessor) processEmail(job *queue.Job) error {
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.mailer == nil {
		return nil
	}
	if _, err := p.mailer.Send(payload.RecipientEmail, payload.Subject, payload.Body); err != nil {
		return err
	}
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
