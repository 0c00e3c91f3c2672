package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"accredapi/internal/service"
)

type decideRequest struct {
	Status  string  `json:"status" validate:"required,oneof=approved disapproved"`
	Comment *string `json:"comment"`
}

// DecideDocument godoc
// @Summary Approve or disapprove a pending document
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "document id"
// @Param body body decideRequest true "decision"
// @Success 200 {object} model.Document
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /documents/{id}/status [patch]
func DecideDocument(svc service.ReviewService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req decideRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		if details := validateStruct(req); details != nil {
			return writeErrorDetails(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", details)
		}

		doc, err := svc.Decide(c.UserContext(), actor, id, service.DecideInput{Status: req.Status, Comment: req.Comment})
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(doc)
	}
}
