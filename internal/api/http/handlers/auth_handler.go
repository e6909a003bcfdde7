package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/api/dto"
	"github.com/groupcart/order-collector/internal/service"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	registration *service.RegistrationService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(registration *service.RegistrationService) *AuthHandler {
	return &AuthHandler{registration: registration}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == 0 {
		return fiber.NewError(http.StatusBadRequest, "user_id required")
	}

	user, err := h.registration.Register(c.UserContext(), req.UserID, req.Name, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.FromUser(user)},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == 0 || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id and password required")
	}

	token, exp, err := h.registration.Login(c.UserContext(), req.UserID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"auth": dto.AuthResponse{Token: token, ExpiresAt: exp}},
	})
}
