package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-ace/internal/repositories"
	"alfredoptarigan/interview-ace/internal/services"
)

const SessionHeader = "X-Session-Id"

// respondError maps service failures onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		status = fiber.StatusNotFound
		message = "Interview session not found. Please start a new interview."
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, services.ErrFeedbackGenerationFailed):
		status = fiber.StatusBadGateway
		message = "Failed to generate interview feedback. Please try again."
	case errors.Is(err, services.ErrExtractionFailed):
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, services.ErrTranscriptLimit):
		status = fiber.StatusConflict
		message = "Interview has reached its maximum length. Please end the interview."
	case errors.Is(err, repositories.ErrRecordNotFound):
		status = fiber.StatusNotFound
		message = "Not found"
	case errors.Is(err, services.ErrSearchUnavailable):
		status = fiber.StatusServiceUnavailable
		message = err.Error()
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func bearerToken(c *fiber.Ctx) string {
	return strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
}
