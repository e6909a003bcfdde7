package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/api/dto"
	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/service"
)

// AdminHandler exposes the collection, fulfilment and directory management
// endpoints reserved for admins.
type AdminHandler struct {
	orders *service.OrderService
	admin  *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(orders *service.OrderService, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{orders: orders, admin: admin}
}

// NewCollection handles POST /admin/collection/new.
func (h *AdminHandler) NewCollection(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	h.orders.NewCollection(c.UserContext(), principal.User.ID)
	return c.JSON(fiber.Map{"data": dto.CollectionStatusResponse{Open: true}})
}

// OpenCollection handles POST /admin/collection/open.
func (h *AdminHandler) OpenCollection(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	h.orders.OpenCollection(c.UserContext(), principal.User.ID)
	return c.JSON(fiber.Map{"data": dto.CollectionStatusResponse{Open: true}})
}

// CloseCollection handles POST /admin/collection/close.
func (h *AdminHandler) CloseCollection(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	h.orders.CloseCollection(c.UserContext(), principal.User.ID)
	return c.JSON(fiber.Map{"data": dto.CollectionStatusResponse{Open: false}})
}

// OrdersByProduct handles GET /admin/orders/by-product.
func (h *AdminHandler) OrdersByProduct(c *fiber.Ctx) error {
	groups := h.orders.OrdersByProduct()
	out := make([]dto.ProductGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.ProductGroupResponse{
			Product: dto.FromProduct(g.Product),
			Orders:  dto.FromOrderLines(g.Lines),
			Count:   g.Count,
			AllDone: g.AllDone,
			Total:   g.Total,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"groups": out}})
}

// OrdersByUser handles GET /admin/orders/by-user.
func (h *AdminHandler) OrdersByUser(c *fiber.Ctx) error {
	groups := h.orders.OrdersByUser()
	out := make([]dto.UserGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.UserGroupResponse{
			User:   dto.FromUser(g.User),
			Orders: dto.FromOrderLines(g.Lines),
			Total:  g.Total,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"groups": out}})
}

// ExportProductIDs handles GET /admin/orders/export.
func (h *AdminHandler) ExportProductIDs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"product_ids": h.orders.ExportProductIDs()}})
}

// UsersWithoutOrders handles GET /admin/users/without-orders.
func (h *AdminHandler) UsersWithoutOrders(c *fiber.Ctx) error {
	users := h.orders.UsersWithoutOrders()
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"users": out}})
}

// MarkDone handles POST /admin/orders/:user_id/:product_id/done.
func (h *AdminHandler) MarkDone(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.orders.MarkDone(c.UserContext(), userID, productID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkProductDone handles POST /admin/products/:product_id/done.
func (h *AdminHandler) MarkProductDone(c *fiber.Ctx) error {
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	changed, err := h.orders.MarkAllDoneForProduct(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": changed}})
}

// CancelOrder handles DELETE /admin/orders/:user_id/:product_id.
func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.orders.CancelOrder(c.UserContext(), principal.User.ID, userID, productID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users := h.admin.ListUsers()
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"users": out}})
}

// AddUser handles POST /admin/users.
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	var req dto.AddUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	user, err := h.admin.AddUser(c.UserContext(), req.ID, req.Name, req.IsAdmin)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"user": dto.FromUser(user)}})
}

// RenameUser handles PUT /admin/users/:user_id/name.
func (h *AdminHandler) RenameUser(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	var req dto.RenameUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.admin.RenameUser(c.UserContext(), userID, req.Name); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetAdmin handles PUT /admin/users/:user_id/admin.
func (h *AdminHandler) SetAdmin(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	var req dto.SetAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.admin.SetAdmin(c.UserContext(), principal.User.ID, userID, req.IsAdmin); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveUser handles DELETE /admin/users/:user_id.
func (h *AdminHandler) RemoveUser(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.admin.RemoveUser(c.UserContext(), principal.User.ID, userID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Blacklist handles GET /admin/blacklist.
func (h *AdminHandler) Blacklist(c *fiber.Ctx) error {
	ids := h.admin.Blacklist()
	if ids == nil {
		ids = []int64{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user_ids": ids}})
}

// BlacklistUser handles POST /admin/blacklist/:user_id.
func (h *AdminHandler) BlacklistUser(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.admin.BlacklistUser(c.UserContext(), principal.User.ID, userID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UnblacklistUser handles DELETE /admin/blacklist/:user_id.
func (h *AdminHandler) UnblacklistUser(c *fiber.Ctx) error {
	userID, err := paramInt64(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.admin.UnblacklistUser(c.UserContext(), userID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SharedPassword handles GET /admin/password.
func (h *AdminHandler) SharedPassword(c *fiber.Ctx) error {
	password, ok := h.admin.SharedPassword()
	return c.JSON(fiber.Map{"data": fiber.Map{"password": password, "set": ok}})
}

// SetSharedPassword handles PUT /admin/password.
func (h *AdminHandler) SetSharedPassword(c *fiber.Ctx) error {
	var req dto.SharedPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.admin.SetSharedPassword(c.UserContext(), req.Password); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ClearSharedPassword handles DELETE /admin/password.
func (h *AdminHandler) ClearSharedPassword(c *fiber.Ctx) error {
	h.admin.ClearSharedPassword(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

// ListProducts handles GET /admin/products.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products := h.admin.Products()
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"products": out}})
}

// RemoveProduct handles DELETE /admin/products/:product_id.
func (h *AdminHandler) RemoveProduct(c *fiber.Ctx) error {
	productID, err := paramInt64(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.admin.RemoveProduct(c.UserContext(), productID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
