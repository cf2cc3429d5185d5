package handler

import (
	"errors"
	"log"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/repository"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	accounts service.AccountStore
	chat     ChatStore
}

func NewAdminHandler(accounts service.AccountStore, chat ChatStore) *AdminHandler {
	return &AdminHandler{accounts: accounts, chat: chat}
}

// ListUsers returns every account without credential material.
// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	accounts, err := h.accounts.List(c.Context())
	if err != nil {
		log.Printf("[Admin] ListUsers DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	return c.JSON(accounts)
}

// GetUser returns a single account. GET /admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "id must be a uuid"})
	}

	acct, err := h.accounts.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not_found"})
		}
		log.Printf("[Admin] GetUser DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(acct)
}

// SetUserStatus blocks or unblocks an account. Blocking nulls the session
// token, so the next heartbeat from that device evicts it.
// POST /admin/users/status
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	var req model.UserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	// id lands in a uuid column; reject junk before it reaches the driver.
	if _, err := uuid.Parse(req.ID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "id must be a uuid"})
	}
	if req.Status != model.StatusActive && req.Status != model.StatusBlocked {
		return c.Status(400).JSON(fiber.Map{"error": "status must be active or blocked"})
	}

	if err := h.accounts.SetStatus(c.Context(), req.ID, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not_found"})
		}
		log.Printf("[Admin] SetUserStatus DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteUser removes the account row; the session token goes with it.
// POST /admin/users/delete
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	var req model.UserDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if _, err := uuid.Parse(req.ID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "id must be a uuid"})
	}

	if err := h.accounts.Delete(c.Context(), req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not_found"})
		}
		log.Printf("[Admin] DeleteUser DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Stats reports basic row counts. GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	totalAccounts, _ := h.accounts.CountTotal(c.Context())
	totalMessages, _ := h.chat.CountTotal(c.Context())

	return c.JSON(fiber.Map{
		"accounts_total": totalAccounts,
		"messages_total": totalMessages,
	})
}
