package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
	"github.com/hibiken/asynq"
)

const (
	TypeAchievementNotify = "notify:achievement"
	TypeDigestNotify      = "notify:digest"

	// Weekly digest sweep, Monday 09:00
	digestCronSpec = "0 9 * * 1"
)

// UserSource is what the digest sweep needs from the store
type UserSource interface {
	GetAllUsers() ([]models.User, error)
}

type JobManager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// AchievementPayload carries everything the worker needs so it never has to
// reach back into the database
type AchievementPayload struct {
	UserID   int      `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Titles   []string `json:"titles"`
	Points   int      `json:"points"`
}

func NewJobManager(redisURL string) *JobManager {
	addr := strings.TrimPrefix(redisURL, "redis://")
	redisOpt := asynq.RedisClientOpt{
		Addr: addr,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: &AsynqLogger{},
	})

	mux := asynq.NewServeMux()

	return &JobManager{
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       mux,
	}
}

func (jm *JobManager) RegisterHandlers(emailService *auth.EmailService, users UserSource, agg *analytics.Aggregator) {
	jm.mux.HandleFunc(TypeAchievementNotify, jm.handleAchievementNotify(emailService))
	jm.mux.HandleFunc(TypeDigestNotify, jm.handleDigestNotify(emailService, users, agg))
}

// ScheduleWeeklyDigest registers the recurring digest sweep with the
// scheduler. Must be called before Start.
func (jm *JobManager) ScheduleWeeklyDigest() error {
	task := asynq.NewTask(TypeDigestNotify, nil)

	entryID, err := jm.scheduler.Register(digestCronSpec, task,
		asynq.Queue("low"),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to register digest schedule: %w", err)
	}

	utils.LogJob("Weekly digest scheduled: entry=%s spec=%q", entryID, digestCronSpec)
	return nil
}

func (jm *JobManager) Start() error {
	utils.LogStartup("Starting job queue worker...")
	if err := jm.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return jm.server.Run(jm.mux)
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.scheduler.Shutdown()
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// QueueAchievementNotification enqueues the unlocked-achievement email.
// Notification is advisory: callers log enqueue failures and move on, the
// recording request never fails because of the queue.
func (jm *JobManager) QueueAchievementNotification(payload AchievementPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal achievement payload: %w", err)
	}

	task := asynq.NewTask(TypeAchievementNotify, payloadBytes)

	info, err := jm.client.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(60*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue achievement task: %w", err)
	}

	utils.LogJob("Queued achievement notification: ID=%s user=%d titles=%d",
		info.ID, payload.UserID, len(payload.Titles))
	return nil
}

func (jm *JobManager) handleAchievementNotify(emailService *auth.EmailService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload AchievementPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal achievement payload: %w", err)
		}

		utils.LogJob("Processing achievement notification: user=%d titles=%v", payload.UserID, payload.Titles)

		subject, body := emailService.BuildAchievementEmail(payload.Username, payload.Titles, payload.Points)
		if err := emailService.SendEmail(payload.Email, subject, body); err != nil {
			return fmt.Errorf("failed to send achievement email to %s: %w", payload.Email, err)
		}

		return nil
	}
}

// handleDigestNotify runs the weekly sweep: every user with activity in the
// last 7 days gets a summary email. A send failure for one user is logged
// and the sweep moves on; only a user-listing failure retries the task.
func (jm *JobManager) handleDigestNotify(emailService *auth.EmailService, users UserSource, agg *analytics.Aggregator) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		utils.LogJob("Starting weekly digest sweep")
		start := time.Now()

		allUsers, err := users.GetAllUsers()
		if err != nil {
			return fmt.Errorf("digest sweep failed to list users: %w", err)
		}

		sent := 0
		for _, user := range allUsers {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			activity, err := agg.ActivitySummary(user.ID, 7)
			if err != nil {
				utils.LogError("Digest skipped for user %d, activity failed: %v", user.ID, err)
				continue
			}
			if activity.InteractionCount == 0 {
				continue
			}

			summary, err := agg.Summarize(user.ID, "")
			if err != nil {
				utils.LogError("Digest skipped for user %d, summary failed: %v", user.ID, err)
				continue
			}

			subject, body := emailService.BuildDigestEmail(user.Username, summary, activity)
			if err := emailService.SendEmail(user.Email, subject, body); err != nil {
				utils.LogError("Digest email failed for user %d: %v", user.ID, err)
				continue
			}
			sent++
		}

		utils.LogJob("Weekly digest sweep done: %d of %d users emailed in %v",
			sent, len(allUsers), time.Since(start))
		return nil
	}
}

// Custom logger that routes asynq output through the prefixed log wrappers
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogDebug(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogJob(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}
