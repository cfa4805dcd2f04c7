package job

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/linkedin-sync/internal/models"
	"github.com/maheshrc27/linkedin-sync/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct {
	accounts []*models.LinkedInAccount
	err      error
	asOf     time.Time
}

func (s *stubAccounts) Save(ctx context.Context, acc *models.LinkedInAccount) (int64, error) {
	return 0, errors.New("not used")
}

func (s *stubAccounts) GetByOrganization(ctx context.Context, organizationURN string) (*models.LinkedInAccount, error) {
	return nil, errors.New("not used")
}

func (s *stubAccounts) ListActive(ctx context.Context, now time.Time) ([]*models.LinkedInAccount, error) {
	s.asOf = now
	return s.accounts, s.err
}

type recordingEnqueuer struct {
	mu       sync.Mutex
	payloads []queue.SyncPostsPayload
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var payload queue.SyncPostsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return &asynq.TaskInfo{}, nil
}

func TestSyncJobEnqueuesActiveAccounts(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	accounts := &stubAccounts{accounts: []*models.LinkedInAccount{
		{OrganizationURN: "urn:li:organization:1"},
		{OrganizationURN: "urn:li:organization:2"},
		{OrganizationURN: "urn:li:organization:3"},
	}}
	client := &recordingEnqueuer{}

	j := NewSyncJob(accounts, client)
	j.now = func() time.Time { return now }
	j.EnqueueSyncs()

	assert.Equal(t, now, accounts.asOf)
	require.Len(t, client.payloads, 3)

	orgs := make([]string, 0, len(client.payloads))
	for _, p := range client.payloads {
		assert.Equal(t, models.SyncTriggerScheduled, p.Trigger)
		orgs = append(orgs, p.OrganizationURN)
	}
	sort.Strings(orgs)
	assert.Equal(t, []string{"urn:li:organization:1", "urn:li:organization:2", "urn:li:organization:3"}, orgs)
}

func TestSyncJobListFailure(t *testing.T) {
	client := &recordingEnqueuer{}
	j := NewSyncJob(&stubAccounts{err: errors.New("db down")}, client)
	j.EnqueueSyncs()
	assert.Empty(t, client.payloads)
}
