package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/api/dto"
	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/service"
)

// OrdersHandler exposes the self-service order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Submit handles POST /orders.
func (h *OrdersHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req dto.SubmitOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Link:      item.Link,
			Quantity:  item.Quantity,
		})
	}

	lines, err := h.orders.SubmitOrders(c.UserContext(), principal.User.ID, items)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"orders": dto.FromOrderLines(lines)},
	})
}

// List handles GET /orders?partition=current|archived.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	partition := domain.Partition(c.Query("partition", string(domain.PartitionCurrent)))
	view, err := h.orders.UserOrders(principal.User.ID, partition)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.OrdersResponse{
			Orders: dto.FromOrderLines(view.Lines),
			Total:  view.Total,
		},
	})
}

// Increment handles POST /orders/:product_id/increment.
func (h *OrdersHandler) Increment(c *fiber.Ctx) error {
	return h.adjust(c, 1)
}

// Decrement handles POST /orders/:product_id/decrement.
func (h *OrdersHandler) Decrement(c *fiber.Ctx) error {
	return h.adjust(c, -1)
}

func (h *OrdersHandler) adjust(c *fiber.Ctx, delta int) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}

	order, err := h.orders.AdjustQuantity(c.UserContext(), principal.User.ID, principal.User.ID, productID, delta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"product_id": order.ProductID,
			"quantity":   order.Quantity,
		},
	})
}

// Cancel handles DELETE /orders/:product_id.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.orders.CancelOrder(c.UserContext(), principal.User.ID, principal.User.ID, productID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteArchived handles DELETE /orders/archived/:product_id.
func (h *OrdersHandler) DeleteArchived(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.orders.DeleteArchived(c.UserContext(), principal.User.ID, principal.User.ID, productID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CollectionStatus handles GET /collection.
func (h *OrdersHandler) CollectionStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": dto.CollectionStatusResponse{Open: h.orders.CollectionOpen()},
	})
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
