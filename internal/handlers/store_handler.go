package handlers

import (
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler serves the public store pages.
type StoreHandler struct {
	service *services.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.StoreService) *StoreHandler {
	return &StoreHandler{
		service: service,
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/:username", h.HandleGetStore)
}

// HandleGetStore returns the public identity of a user's store.
func (h *StoreHandler) HandleGetStore(c *fiber.Ctx) error {
	info, err := h.service.ResolveStore(c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, info)
}
