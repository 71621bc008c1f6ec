package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

type moderateRequest struct {
	Body     *string             `json:"body"`
	Kind     *model.FeedbackKind `json:"kind"`
	IsPublic *bool               `json:"is_public"`
}

// CreateFeedback handles POST /feedback (thread roots).
func CreateFeedback(svc service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var in service.CreateRootInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		item, err := svc.CreateRoot(c.UserContext(), in, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// CreateFeedbackReply handles POST /feedback/:id/replies.
func CreateFeedbackReply(svc service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var in service.CreateReplyInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		in.ParentID = c.Params("id")
		item, err := svc.CreateReply(c.UserContext(), in, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// GetFeedbackThread handles GET /feedback/threads/:id.
func GetFeedbackThread(svc service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListThreadMessages(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// ModerateFeedback handles PATCH /feedback/:id.
func ModerateFeedback(svc service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var body moderateRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		patch := repository.FeedbackPatch{Body: body.Body, Kind: body.Kind, IsPublic: body.IsPublic}
		item, err := svc.Moderate(c.UserContext(), c.Params("id"), patch, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(item)
	}
}

// RemoveFeedback handles DELETE /feedback/:id.
func RemoveFeedback(svc service.FeedbackService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		removed, err := svc.Remove(c.UserContext(), c.Params("id"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"removed": removed})
	}
}
