package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/service"
	"github.com/maheshrc27/linkedin-sync/pkg/utils"
)

const stateTTL = 10 * time.Minute

type LinkedInHandler struct {
	auth service.LinkedInAuthService
	sync service.SyncService
	cfg  config.Config
}

func NewLinkedInHandler(cfg config.Config, auth service.LinkedInAuthService, sync service.SyncService) *LinkedInHandler {
	return &LinkedInHandler{auth: auth, sync: sync, cfg: cfg}
}

// Login redirects the browser to the LinkedIn consent screen. The state is
// only signed when a SECRET_KEY is configured.
func (h *LinkedInHandler) Login(c *fiber.Ctx) error {
	state := ""
	if h.cfg.SecretKey != "" {
		var err error
		state, err = utils.GenerateState(h.cfg.SecretKey, h.cfg.LinkedIn.OrganizationURN, stateTTL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to start authorization",
			})
		}
	}

	return c.Redirect(h.auth.AuthURL(state), fiber.StatusFound)
}

func (h *LinkedInHandler) Callback(c *fiber.Ctx) error {
	if errCode := c.Query("error"); errCode != "" {
		slog.Info("authorization denied", "error", errCode, "description", c.Query("error_description"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Authorization was denied",
		})
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing authorization code",
		})
	}

	if h.cfg.SecretKey != "" {
		if _, err := utils.ValidateState(h.cfg.SecretKey, c.Query("state")); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid state",
			})
		}
	}

	result, err := h.sync.SyncFromCallback(c.Context(), code)
	if err != nil {
		resp := fiber.Map{
			"error": err.Error(),
		}
		if result != nil {
			resp["upserted"] = result.Upserted
			resp["run_id"] = result.RunID
		}
		return c.Status(syncErrorStatus(err)).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Posts synced successfully",
		"upserted": result.Upserted,
		"skipped":  result.Skipped,
		"run_id":   result.RunID,
	})
}
