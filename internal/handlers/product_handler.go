package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service     *services.CatalogService
	authService *services.AuthService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Listing uses optional auth so that ?username= works without a credential;
// every mutation requires a bearer token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", middleware.AuthOptional(h.authService), h.HandleListProducts)
	productRoutes.Post("/", middleware.AuthRequired(h.authService), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.AuthRequired(h.authService), h.HandleUpdateProduct)
	productRoutes.Patch("/:id", middleware.AuthRequired(h.authService), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.AuthRequired(h.authService), h.HandleDeleteProduct)
}

// HandleListProducts serves both list paths: ?username=U is the public view
// of that user's store, no username means the caller's own products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	username := c.Query("username")

	products, err := h.service.ListProducts(principal, username)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, products)
}

// HandleCreateProduct creates a product owned by the authenticated user.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var draft services.ProductDraft
	if err := c.BodyParser(&draft); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	product, err := h.service.CreateProduct(middleware.Principal(c), draft)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, product)
}

// HandleUpdateProduct applies a partial update to a product the caller owns.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var patch services.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	product, err := h.service.UpdateProduct(middleware.Principal(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, product)
}

// HandleDeleteProduct permanently removes a product the caller owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(middleware.Principal(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "Product deleted successfully")
}
