package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/models"
	"github.com/maheshrc27/linkedin-sync/internal/queue"
	"github.com/maheshrc27/linkedin-sync/internal/service"
)

type SyncHandler struct {
	s           service.SyncService
	AsynqClient queue.Enqueuer
	cfg         config.Config
}

func NewSyncHandler(cfg config.Config, service service.SyncService, asynqClient queue.Enqueuer) *SyncHandler {
	return &SyncHandler{s: service, AsynqClient: asynqClient, cfg: cfg}
}

// TriggerSync queues a pass with the stored token of an organization. The
// configured organization is used unless ?organization= names another.
func (h *SyncHandler) TriggerSync(c *fiber.Ctx) error {
	organizationURN := c.Query("organization", h.cfg.LinkedIn.OrganizationURN)

	err := queue.EnqueueSync(h.AsynqClient, queue.SyncPostsPayload{
		OrganizationURN: organizationURN,
		Trigger:         models.SyncTriggerManual,
	})
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error queueing sync",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":      "Sync queued",
		"organization": organizationURN,
	})
}

func (h *SyncHandler) ListRuns(c *fiber.Ctx) error {
	runs, err := h.s.RecentRuns(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list sync runs",
		})
	}

	if runs == nil {
		runs = []*models.SyncRun{}
	}
	return c.Status(fiber.StatusOK).JSON(runs)
}
