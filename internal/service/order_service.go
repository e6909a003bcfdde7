package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

// OrderService coordinates order intake and collection workflows.
type OrderService struct {
	store      *store.Store
	dispatcher events.Dispatcher
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	Store      *store.Store
	Dispatcher events.Dispatcher
}

// OrderItemInput describes one submitted line. Title, price and link travel
// with the submission so the catalog stays current without a separate sync.
type OrderItemInput struct {
	ProductID int64
	Title     string
	Price     int64
	Link      string
	Quantity  int
}

// OrderLine pairs a stored line with its resolved product.
type OrderLine struct {
	Order   domain.Order
	Product domain.Product
}

// UserOrdersView is a user's lines plus their total.
type UserOrdersView struct {
	Lines []OrderLine
	Total int64
}

// ProductGroup aggregates current lines under one product. Count is the
// total units ordered; AllDone reports whether every line is fulfilled.
type ProductGroup struct {
	Product domain.Product
	Lines   []OrderLine
	Count   int
	AllDone bool
	Total   int64
}

// UserGroup aggregates current lines under one owner.
type UserGroup struct {
	User  domain.User
	Lines []OrderLine
	Total int64
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
	}
}

// SubmitOrders merges a batch of lines into the current collection. The
// caller must be registered and the collection gate must be open; both are
// checked before any line is written, so a rejected batch writes nothing.
func (s *OrderService) SubmitOrders(ctx context.Context, userID int64, items []OrderItemInput) ([]OrderLine, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("no order items provided", nil)
	}
	if !s.store.UserExists(userID) {
		return nil, apperrors.NewForbidden("user is not registered")
	}
	if !s.store.IsOpen() {
		return nil, apperrors.NewPreconditionFailed("collection is closed", nil)
	}

	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, apperrors.NewValidationError("invalid product id", nil)
		}
		if strings.TrimSpace(item.Title) != "" {
			s.store.UpsertProduct(domain.Product{
				ID:    item.ProductID,
				Title: strings.TrimSpace(item.Title),
				Price: item.Price,
				Link:  item.Link,
			})
		}
		existing, merged := s.store.Order(userID, item.ProductID, domain.PartitionCurrent)
		order := s.store.AddOrIncrement(userID, item.ProductID, item.Quantity)
		lines = append(lines, OrderLine{
			Order:   order,
			Product: s.store.ResolveProduct(item.ProductID),
		})
		s.publishEvent(ctx, events.Event{
			Type:    events.EventOrderSubmitted,
			ActorID: userID,
			Payload: events.OrderSubmittedPayload{
				UserID:    userID,
				ProductID: item.ProductID,
				Quantity:  order.Quantity - existing.Quantity,
				Merged:    merged,
			},
		})
	}
	return lines, nil
}

// UserOrders returns the caller's lines from one partition with the total.
func (s *OrderService) UserOrders(userID int64, partition domain.Partition) (UserOrdersView, error) {
	if !partition.Valid() {
		return UserOrdersView{}, apperrors.NewValidationError("unknown partition", nil)
	}
	orders := s.store.Orders(userID, partition)
	return UserOrdersView{
		Lines: s.resolveLines(orders),
		Total: s.store.OrdersTotal(orders),
	}, nil
}

// AdjustQuantity steps a current line by delta on behalf of its owner.
// Stepping is part of intake, so it shares the open gate with submission;
// a step that would drop the quantity below one is refused rather than
// deleting the line.
func (s *OrderService) AdjustQuantity(ctx context.Context, actorID, userID, productID int64, delta int) (domain.Order, error) {
	if actorID != userID {
		return domain.Order{}, apperrors.NewForbidden("only the owner can change quantities")
	}
	if !s.store.IsOpen() {
		return domain.Order{}, apperrors.NewPreconditionFailed("collection is closed", nil)
	}
	order, ok := s.store.Order(userID, productID, domain.PartitionCurrent)
	if !ok {
		return domain.Order{}, apperrors.NewNotFound("order", nil)
	}
	if order.Done {
		return domain.Order{}, apperrors.NewPreconditionFailed("order is already done", nil)
	}
	next := order.Quantity + delta
	if next < 1 {
		return domain.Order{}, apperrors.NewPreconditionFailed("quantity cannot drop below one", nil)
	}
	if !s.store.SetQuantity(userID, productID, next) {
		return domain.Order{}, apperrors.NewConflict("order changed concurrently", nil)
	}
	order.Quantity = next
	return order, nil
}

// CancelOrder removes a current line. The owner may always cancel their own
// line; admins may cancel anyone's.
func (s *OrderService) CancelOrder(ctx context.Context, actorID, userID, productID int64) error {
	if actorID != userID && !s.store.IsAdmin(actorID) {
		return apperrors.NewForbidden("only the owner or an admin can cancel")
	}
	if !s.store.Remove(userID, productID, domain.PartitionCurrent) {
		return apperrors.NewNotFound("order", nil)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCancelled,
		ActorID: actorID,
		Payload: events.OrderCancelledPayload{
			UserID:    userID,
			ProductID: productID,
			Partition: domain.PartitionCurrent,
		},
	})
	return nil
}

// DeleteArchived removes a line from the caller's own archive. Unlike
// cancellation the archive is private history, so admins get no override.
func (s *OrderService) DeleteArchived(ctx context.Context, actorID, userID, productID int64) error {
	if actorID != userID {
		return apperrors.NewForbidden("only the owner can delete archived orders")
	}
	if !s.store.Remove(userID, productID, domain.PartitionArchived) {
		return apperrors.NewNotFound("order", nil)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCancelled,
		ActorID: actorID,
		Payload: events.OrderCancelledPayload{
			UserID:    userID,
			ProductID: productID,
			Partition: domain.PartitionArchived,
		},
	})
	return nil
}

// MarkDone completes one current line. Requires the collection to be closed.
func (s *OrderService) MarkDone(ctx context.Context, userID, productID int64) error {
	err := s.store.MarkDone(userID, productID)
	switch {
	case errors.Is(err, store.ErrCollectionOpen):
		return apperrors.NewPreconditionFailed("close the collection before marking orders done", nil)
	case errors.Is(err, store.ErrOrderNotFound):
		return apperrors.NewNotFound("order", nil)
	}
	return err
}

// MarkAllDoneForProduct completes every outstanding current line for one
// product and returns how many changed.
func (s *OrderService) MarkAllDoneForProduct(ctx context.Context, productID int64) (int, error) {
	changed, err := s.store.MarkAllDoneForProduct(productID)
	if errors.Is(err, store.ErrCollectionOpen) {
		return 0, apperrors.NewPreconditionFailed("close the collection before marking orders done", nil)
	}
	return changed, err
}

// NewCollection archives the current partition and opens intake for a fresh
// one. The rollover and the gate flip are one logical action: a reopened
// window (OpenCollection) never archives.
func (s *OrderService) NewCollection(ctx context.Context, actorID int64) {
	s.store.RolloverToArchive()
	s.store.SetOpen(true)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCollectionRolledOver,
		ActorID: actorID,
	})
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCollectionOpened,
		ActorID: actorID,
		Payload: events.CollectionOpenedPayload{Fresh: true},
	})
}

// OpenCollection reopens intake on the existing current partition without
// archiving anything.
func (s *OrderService) OpenCollection(ctx context.Context, actorID int64) {
	s.store.SetOpen(true)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCollectionOpened,
		ActorID: actorID,
		Payload: events.CollectionOpenedPayload{Fresh: false},
	})
}

// CloseCollection stops intake; existing lines stay in place for fulfilment.
func (s *OrderService) CloseCollection(ctx context.Context, actorID int64) {
	s.store.SetOpen(false)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCollectionClosed,
		ActorID: actorID,
	})
}

// CollectionOpen reports the intake gate.
func (s *OrderService) CollectionOpen() bool {
	return s.store.IsOpen()
}

// OrdersByProduct returns the current partition grouped per product, groups
// sorted by product id for stable rendering.
func (s *OrderService) OrdersByProduct() []ProductGroup {
	grouped := s.store.GroupByProduct()
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]ProductGroup, 0, len(ids))
	for _, id := range ids {
		orders := grouped[id]
		count := 0
		allDone := true
		for _, o := range orders {
			count += o.Quantity
			if !o.Done {
				allDone = false
			}
		}
		out = append(out, ProductGroup{
			Product: s.store.ResolveProduct(id),
			Lines:   s.resolveLines(orders),
			Count:   count,
			AllDone: allDone,
			Total:   s.store.OrdersTotal(orders),
		})
	}
	return out
}

// OrdersByUser returns the current partition grouped per owner, groups
// sorted by user id.
func (s *OrderService) OrdersByUser() []UserGroup {
	grouped := s.store.GroupByUser()
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]UserGroup, 0, len(ids))
	for _, id := range ids {
		orders := grouped[id]
		user, _ := s.store.User(id)
		if user.ID == 0 {
			user = domain.User{ID: id}
		}
		out = append(out, UserGroup{
			User:  user,
			Lines: s.resolveLines(orders),
			Total: s.store.OrdersTotal(orders),
		})
	}
	return out
}

// UsersWithoutOrders lists registered users with no line in the current
// partition, for nudging before the collection closes.
func (s *OrderService) UsersWithoutOrders() []domain.User {
	grouped := s.store.GroupByUser()
	var out []domain.User
	for _, u := range s.store.Users() {
		if _, ok := grouped[u.ID]; !ok {
			out = append(out, u)
		}
	}
	return out
}

// ExportProductIDs renders the current partition as a comma-joined list of
// product ids, each id repeated once per unit ordered. The format is what
// the companion browser extension pastes into the supplier's cart page.
func (s *OrderService) ExportProductIDs() string {
	grouped := s.store.GroupByProduct()
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var parts []string
	for _, id := range ids {
		count := 0
		for _, o := range grouped[id] {
			count += o.Quantity
		}
		for i := 0; i < count; i++ {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(parts, ",")
}

func (s *OrderService) resolveLines(orders []domain.Order) []OrderLine {
	lines := make([]OrderLine, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, OrderLine{
			Order:   o,
			Product: s.store.ResolveProduct(o.ProductID),
		})
	}
	return lines
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
