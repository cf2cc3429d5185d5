package handler

import (
	"errors"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login issues a fresh session token, displacing any prior session for the
// account. POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Pass == "" {
		return c.Status(400).JSON(fiber.Map{"error": "username and pass are required"})
	}

	resp, err := h.authSvc.Login(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(resp)
}

// Heartbeat answers the periodic liveness probe. A 401 here is the eviction
// signal: the caller must force a local logout. POST /heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	var req model.HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.authSvc.Heartbeat(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			return c.Status(401).JSON(fiber.Map{
				"error":   "session_expired",
				"message": "another device has signed in to this account",
			})
		}
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(model.HeartbeatResponse{Status: "alive"})
}

// Logout clears the stored token if it still matches. POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req model.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	_ = h.authSvc.Logout(c.Context(), &req)
	return c.JSON(fiber.Map{"success": true})
}

// Register creates a member account. POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Pass == "" {
		return c.Status(400).JSON(fiber.Map{"error": "username and pass are required"})
	}

	resp, err := h.authSvc.Register(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}

	return c.Status(201).JSON(resp)
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"error": "invalid_credentials"})
	case errors.Is(err, service.ErrAccountBlocked):
		return c.Status(403).JSON(fiber.Map{"error": "account_blocked"})
	case errors.Is(err, service.ErrUserExists):
		return c.Status(409).JSON(fiber.Map{"error": "user_exists"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
	case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidUsername):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}
}
