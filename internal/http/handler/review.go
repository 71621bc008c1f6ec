package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

type revisionNoteRequest struct {
	Note string `json:"note"`
}

type revisionReplyRequest struct {
	Reply string `json:"reply"`
}

type submitRequest struct {
	RevisionReply string `json:"revision_reply"`
}

// ClaimReview handles POST /aips/:id/claim.
func ClaimReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		res, err := svc.ClaimReview(c.UserContext(), c.Params("id"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// PublishAip handles POST /aips/:id/publish.
func PublishAip(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		res, err := svc.PublishAip(c.UserContext(), c.Params("id"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RequestRevision handles POST /aips/:id/request-revision.
func RequestRevision(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var body revisionNoteRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		res, err := svc.RequestRevision(c.UserContext(), c.Params("id"), body.Note, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SubmitForReview handles POST /aips/:id/submit.
func SubmitForReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var body submitRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
			}
		}
		res, err := svc.SubmitForReview(c.UserContext(), c.Params("id"), body.RevisionReply, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CancelSubmission handles POST /aips/:id/cancel.
func CancelSubmission(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		res, err := svc.CancelSubmission(c.UserContext(), c.Params("id"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SaveRevisionReply handles POST /aips/:id/revision-reply.
func SaveRevisionReply(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		var body revisionReplyRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		res, err := svc.SaveRevisionReply(c.UserContext(), c.Params("id"), body.Reply, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetLatestReview handles GET /aips/:id/review/latest.
func GetLatestReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := svc.GetLatestReview(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		if entry == nil {
			return c.JSON(fiber.Map{"entry": nil})
		}
		return c.JSON(fiber.Map{"entry": entry})
	}
}

// GetSubmissionDetail handles GET /aips/:id/submission.
func GetSubmissionDetail(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFromRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", err.Error())
		}
		detail, err := svc.GetSubmissionDetail(c.UserContext(), c.Params("id"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(detail)
	}
}
