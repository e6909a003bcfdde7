package dto

import (
	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/service"
)

// OrderItemRequest is one submitted line. The mini-app sends the product
// metadata along with the id so the catalog stays current.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Link      string `json:"link"`
	Quantity  int    `json:"quantity"`
}

// SubmitOrdersRequest is an intake batch. A single line is a one-element
// batch.
type SubmitOrdersRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// ProductResponse is one catalog entry.
type ProductResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Link  string `json:"link,omitempty"`
}

// OrderResponse is one stored line with its resolved product.
type OrderResponse struct {
	UserID   int64           `json:"user_id"`
	Quantity int             `json:"quantity"`
	Done     bool            `json:"done"`
	Product  ProductResponse `json:"product"`
}

// OrdersResponse is a set of lines with their total.
type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

// ProductGroupResponse aggregates lines under one product.
type ProductGroupResponse struct {
	Product ProductResponse `json:"product"`
	Orders  []OrderResponse `json:"orders"`
	Count   int             `json:"count"`
	AllDone bool            `json:"all_done"`
	Total   int64           `json:"total"`
}

// UserGroupResponse aggregates lines under one owner.
type UserGroupResponse struct {
	User   UserResponse    `json:"user"`
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

// CollectionStatusResponse reports the intake gate.
type CollectionStatusResponse struct {
	Open bool `json:"open"`
}

// FromProduct maps a domain product.
func FromProduct(p domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Title: p.Title, Price: p.Price, Link: p.Link}
}

// FromUser maps a directory entry.
func FromUser(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, IsAdmin: u.IsAdmin}
}

// FromOrderLine maps a resolved line.
func FromOrderLine(line service.OrderLine) OrderResponse {
	return OrderResponse{
		UserID:   line.Order.UserID,
		Quantity: line.Order.Quantity,
		Done:     line.Order.Done,
		Product:  FromProduct(line.Product),
	}
}

// FromOrderLines maps a slice of resolved lines.
func FromOrderLines(lines []service.OrderLine) []OrderResponse {
	out := make([]OrderResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, FromOrderLine(line))
	}
	return out
}
