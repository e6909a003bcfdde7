package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

// AdminService covers the directory, blacklist and shared-password
// management operations reserved for admins.
type AdminService struct {
	store      *store.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	Store      *store.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// EnsureInitialAdmins seeds the owner accounts on startup. Existing entries
// are promoted rather than replaced, so an owner who renamed themselves
// keeps the name.
func (s *AdminService) EnsureInitialAdmins(ownerIDs []int64) {
	for _, id := range ownerIDs {
		if id <= 0 {
			continue
		}
		if user, ok := s.store.User(id); ok {
			if !user.IsAdmin {
				s.store.SetAdmin(id, true)
				s.logger.Info("promoted existing user to admin", zap.Int64("user_id", id))
			}
			continue
		}
		s.store.UpsertUser(domain.User{ID: id, IsAdmin: true})
		s.logger.Info("seeded owner admin", zap.Int64("user_id", id))
	}
}

// ListUsers returns the full directory.
func (s *AdminService) ListUsers() []domain.User {
	return s.store.Users()
}

// AddUser creates or updates a directory entry directly, skipping the
// password flow.
func (s *AdminService) AddUser(ctx context.Context, id int64, name string, admin bool) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, apperrors.NewValidationError("invalid user id", nil)
	}
	// An empty name is allowed; the user fills it in later via rename.
	user := domain.User{ID: id, Name: strings.TrimSpace(name), IsAdmin: admin}
	s.store.UpsertUser(user)
	return user, nil
}

// RenameUser updates a display name.
func (s *AdminService) RenameUser(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if !s.store.UserExists(id) {
		return apperrors.NewNotFound("user", nil)
	}
	s.store.SetName(id, name)
	return nil
}

// SetAdmin flips the admin flag. Admins cannot demote themselves, so the
// directory can never lose its last admin through self-service.
func (s *AdminService) SetAdmin(ctx context.Context, actorID, id int64, admin bool) error {
	if actorID == id && !admin {
		return apperrors.NewForbidden("admins cannot demote themselves")
	}
	if !s.store.SetAdmin(id, admin) {
		return apperrors.NewNotFound("user", nil)
	}
	return nil
}

// RemoveUser deletes a directory entry together with all of the user's
// orders and registration state. Self-deletion is refused for the same
// reason as self-demotion.
func (s *AdminService) RemoveUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewForbidden("admins cannot remove themselves")
	}
	if !s.store.RemoveUser(id) {
		return apperrors.NewNotFound("user", nil)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserRemoved,
		ActorID: actorID,
		Payload: events.UserRemovedPayload{UserID: id},
	})
	return nil
}

// Blacklist returns the ids of all blacklisted users.
func (s *AdminService) Blacklist() []int64 {
	return s.store.Blacklist()
}

// BlacklistUser manually blacklists an id. The id does not need a directory
// entry; a removed user can be banned from re-registering.
func (s *AdminService) BlacklistUser(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	if actorID == id {
		return apperrors.NewForbidden("admins cannot blacklist themselves")
	}
	s.store.SetBlacklisted(id, true)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserBlacklisted,
		ActorID: actorID,
		Payload: events.UserBlacklistedPayload{UserID: id},
	})
	return nil
}

// UnblacklistUser lifts a ban and clears the burned attempts so the user can
// try the password flow again from scratch.
func (s *AdminService) UnblacklistUser(ctx context.Context, id int64) error {
	if _, ok := s.store.Registration(id); !ok {
		return apperrors.NewNotFound("registration record", nil)
	}
	s.store.SetBlacklisted(id, false)
	s.store.ResetAttempts(id)
	return nil
}

// SharedPassword returns the current shared registration password.
func (s *AdminService) SharedPassword() (string, bool) {
	return s.store.Password()
}

// SetSharedPassword replaces the shared registration password.
func (s *AdminService) SetSharedPassword(ctx context.Context, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return apperrors.NewValidationError("password is required", nil)
	}
	s.store.SetPassword(password)
	return nil
}

// ClearSharedPassword closes registration until a new password is set.
func (s *AdminService) ClearSharedPassword(ctx context.Context) {
	s.store.ClearPassword()
}

// RemoveProduct drops a catalog entry. Orders referencing it keep rendering
// with a placeholder.
func (s *AdminService) RemoveProduct(ctx context.Context, id int64) error {
	if !s.store.RemoveProduct(id) {
		return apperrors.NewNotFound("product", nil)
	}
	return nil
}

// Products returns the catalog in insertion order.
func (s *AdminService) Products() []domain.Product {
	return s.store.Products()
}

func (s *AdminService) publishEvent(ctx context.Context, event events.Event) {
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
