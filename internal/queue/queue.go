package queue

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// syncUniqueTTL keeps a second sync for the same organization from being
// queued while one is still pending.
const syncUniqueTTL = 5 * time.Minute

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueSync queues one pass for an organization. A pass is never retried;
// the next scheduled run picks up where this one failed. A duplicate of a
// pending task is not an error.
func EnqueueSync(client Enqueuer, payload SyncPostsPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeSyncPosts, taskPayload)

	_, err = client.Enqueue(task, asynq.MaxRetry(0), asynq.Unique(syncUniqueTTL))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		log.Printf("Sync already queued: %+v", payload)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Sync queued: %+v", payload)
	return nil
}
