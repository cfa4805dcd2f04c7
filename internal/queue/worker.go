package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/linkedin-sync/internal/service"
)

func (j *Queue) HandleSyncPostsTask(ctx context.Context, task *asynq.Task) error {
	var payload SyncPostsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode sync payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OrganizationURN == "" {
		return fmt.Errorf("sync payload has no organization: %w", asynq.SkipRetry)
	}

	result, err := j.sync.SyncStoredAccount(ctx, payload.OrganizationURN, payload.Trigger)
	if errors.Is(err, service.ErrNoStoredToken) || errors.Is(err, service.ErrTokenExpired) {
		// Nothing to do until someone completes the authorization flow again.
		slog.Info("sync skipped", "organization", payload.OrganizationURN, "reason", err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("sync task done", "run_id", result.RunID, "upserted", result.Upserted)
	return nil
}
