package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/catalog"
)

// CatalogHandler serves the supplier feed to the mini-app.
type CatalogHandler struct {
	feed *catalog.Feed
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(feed *catalog.Feed) *CatalogHandler {
	return &CatalogHandler{feed: feed}
}

// Products handles GET /catalog/products?category=.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	items, err := h.feed.Products(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"products": items}})
}

// Categories handles GET /catalog/categories.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.feed.Categories(c.UserContext())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"categories": categories}})
}
