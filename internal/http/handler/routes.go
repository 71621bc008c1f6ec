package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; every decision lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, reviewSvc service.ReviewService, feedbackSvc service.FeedbackService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Backward-compatible simple liveness probe
	app.Get("/healthz", LivenessProbe())

	// Submission review workflow
	app.Post("/aips/:id/submit", SubmitForReview(reviewSvc))
	app.Post("/aips/:id/cancel", CancelSubmission(reviewSvc))
	app.Post("/aips/:id/claim", ClaimReview(reviewSvc))
	app.Post("/aips/:id/publish", PublishAip(reviewSvc))
	app.Post("/aips/:id/request-revision", RequestRevision(reviewSvc))
	app.Post("/aips/:id/revision-reply", SaveRevisionReply(reviewSvc))
	app.Get("/aips/:id/review/latest", GetLatestReview(reviewSvc))
	app.Get("/aips/:id/submission", GetSubmissionDetail(reviewSvc))

	// Feedback threads
	app.Post("/feedback", CreateFeedback(feedbackSvc))
	app.Post("/feedback/:id/replies", CreateFeedbackReply(feedbackSvc))
	app.Get("/feedback/threads/:id", GetFeedbackThread(feedbackSvc))
	app.Patch("/feedback/:id", ModerateFeedback(feedbackSvc))
	app.Delete("/feedback/:id", RemoveFeedback(feedbackSvc))
}
