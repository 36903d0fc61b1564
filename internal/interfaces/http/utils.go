package http

import (
	"errors"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the domain error taxonomy onto HTTP status codes.
// Anything unclassified is treated as a gateway failure.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *domain.ValidationError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrNotAllowed):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrVisitNotFound),
		errors.Is(err, domain.ErrIssueNotFound),
		errors.Is(err, domain.ErrResidentNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrActorNotFound):
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
