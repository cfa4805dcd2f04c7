package queue

import (
	"github.com/maheshrc27/linkedin-sync/internal/service"
)

type Queue struct {
	sync service.SyncService
}

func NewQueue(sync service.SyncService) *Queue {
	return &Queue{sync: sync}
}

const TaskTypeSyncPosts = "sync:posts"

type SyncPostsPayload struct {
	OrganizationURN string `json:"organization_urn"`
	Trigger         string `json:"trigger"`
}
