package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/linkedin-sync/internal/models"
	"github.com/maheshrc27/linkedin-sync/internal/queue"
	"github.com/maheshrc27/linkedin-sync/internal/repository"
)

type SyncJob struct {
	ar     repository.LinkedInAccountRepository
	client queue.Enqueuer
	now    func() time.Time
}

func NewSyncJob(ar repository.LinkedInAccountRepository, client queue.Enqueuer) *SyncJob {
	return &SyncJob{
		ar:     ar,
		client: client,
		now:    time.Now,
	}
}

// EnqueueSyncs queues a scheduled pass for every organization whose stored
// token is still valid. Expired tokens are left alone; there is no refresh.
func (j *SyncJob) EnqueueSyncs() {
	ctx := context.Background()

	accounts, err := j.ar.ListActive(ctx, j.now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.LinkedInAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := queue.EnqueueSync(j.client, queue.SyncPostsPayload{
				OrganizationURN: acc.OrganizationURN,
				Trigger:         models.SyncTriggerScheduled,
			})
			if err != nil {
				slog.Info("Unable to queue scheduled sync", "organization", acc.OrganizationURN, "error", err.Error())
			}
		}(acc)
	}

	wg.Wait()
}
