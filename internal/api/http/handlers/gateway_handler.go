package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/api/dto"
	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/command"
	"github.com/groupcart/order-collector/internal/service"
)

// GatewayHandler accepts the compact callback strings relayed by the chat
// gateway and dispatches them as typed commands. The acting user comes from
// the bearer token, never from the callback payload.
type GatewayHandler struct {
	orders *service.OrderService
}

// NewGatewayHandler constructs handler.
func NewGatewayHandler(orders *service.OrderService) *GatewayHandler {
	return &GatewayHandler{orders: orders}
}

// Callback handles POST /gateway/callback.
func (h *GatewayHandler) Callback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req dto.GatewayCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cmd, err := command.Parse(req.Data)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	actorID := principal.User.ID

	switch cmd.Action {
	case command.ActionCancelOrder:
		err = h.orders.CancelOrder(ctx, actorID, cmd.UserID, cmd.ProductID)
	case command.ActionDeleteArchived:
		err = h.orders.DeleteArchived(ctx, actorID, cmd.UserID, cmd.ProductID)
	case command.ActionIncreaseCount:
		_, err = h.orders.AdjustQuantity(ctx, actorID, cmd.UserID, cmd.ProductID, 1)
	case command.ActionDecreaseCount:
		_, err = h.orders.AdjustQuantity(ctx, actorID, cmd.UserID, cmd.ProductID, -1)
	case command.ActionMarkDone:
		if !principal.User.IsAdmin {
			return fiber.ErrForbidden
		}
		err = h.orders.MarkDone(ctx, cmd.UserID, cmd.ProductID)
	case command.ActionMarkProductDone:
		if !principal.User.IsAdmin {
			return fiber.ErrForbidden
		}
		_, err = h.orders.MarkAllDoneForProduct(ctx, cmd.ProductID)
	case command.ActionNewCollection:
		if !principal.User.IsAdmin {
			return fiber.ErrForbidden
		}
		h.orders.NewCollection(ctx, actorID)
	case command.ActionOpenCollection:
		if !principal.User.IsAdmin {
			return fiber.ErrForbidden
		}
		h.orders.OpenCollection(ctx, actorID)
	case command.ActionCloseCollection:
		if !principal.User.IsAdmin {
			return fiber.ErrForbidden
		}
		h.orders.CloseCollection(ctx, actorID)
	default:
		return fiber.NewError(http.StatusBadRequest, "unsupported action")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"action": string(cmd.Action)}})
}
