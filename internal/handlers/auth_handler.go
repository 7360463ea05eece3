package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/services"
)

const userIDLocal = "userID"

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// HandleSignup handles POST /auth/signup
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	user, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignup):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	token, expiresAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}

	return c.JSON(models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id in the request locals.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	userID, err := h.authService.Authenticate(bearerToken(c))
	if err != nil {
		return respondError(c, services.ErrUnauthorized)
	}
	c.Locals(userIDLocal, userID)
	return c.Next()
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDLocal).(string)
	return userID
}
