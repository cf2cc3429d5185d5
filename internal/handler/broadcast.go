package handler

import (
	"log"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BroadcastHandler struct {
	broadcastSvc *service.BroadcastService
}

func NewBroadcastHandler(broadcastSvc *service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcastSvc: broadcastSvc}
}

// GetConfig returns the singleton config, creating it with defaults on the
// first-ever call. Unauthenticated: both URLs are readable by any client and
// private-stream gating happens on the viewer. GET /system
func (h *BroadcastHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.broadcastSvc.Get(c.Context())
	if err != nil {
		log.Printf("[Broadcast] GetConfig error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}
	return c.JSON(cfg)
}

// SetConfig overwrites the whole row with the supplied object. Viewers pick
// up the change on their next fetch; there is no push. POST /system
func (h *BroadcastHandler) SetConfig(c *fiber.Ctx) error {
	var cfg model.BroadcastConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.broadcastSvc.Set(c.Context(), &cfg); err != nil {
		log.Printf("[Broadcast] SetConfig error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(fiber.Map{"success": true})
}
