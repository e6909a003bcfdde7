package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

// RegistrationService handles onboarding against the shared password and
// token issuance for registered users.
type RegistrationService struct {
	store             *store.Store
	tokens            *auth.TokenManager
	dispatcher        events.Dispatcher
	adminPasswordHash string
	logger            *zap.Logger
}

// RegistrationDependencies bundles collaborators.
type RegistrationDependencies struct {
	Store             *store.Store
	Tokens            *auth.TokenManager
	Dispatcher        events.Dispatcher
	AdminPasswordHash string
	Logger            *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		store:             deps.Store,
		tokens:            deps.Tokens,
		dispatcher:        deps.Dispatcher,
		adminPasswordHash: deps.AdminPasswordHash,
		logger:            deps.Logger,
	}
}

// Register admits a user against the shared password. Blacklisted users are
// rejected outright; an unset shared password means registration is closed.
// Each wrong guess burns one attempt, and the third burns the account:
// blacklisting is terminal until an admin lifts it.
func (s *RegistrationService) Register(ctx context.Context, userID int64, name, password string) (domain.User, error) {
	if userID <= 0 {
		return domain.User{}, apperrors.NewValidationError("invalid user id", nil)
	}
	if s.store.IsBlacklisted(userID) {
		return domain.User{}, apperrors.NewForbidden("user is blacklisted")
	}
	if user, ok := s.store.User(userID); ok {
		// Registration is idempotent for known users; a fresh name wins.
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.store.SetName(userID, trimmed)
			user.Name = trimmed
		}
		s.store.ResetAttempts(userID)
		return user, nil
	}

	shared, ok := s.store.Password()
	if !ok {
		return domain.User{}, apperrors.NewPreconditionFailed("registration is closed: no password configured", nil)
	}
	if subtle.ConstantTimeCompare([]byte(shared), []byte(password)) != 1 {
		attempts := s.store.IncrementAttempts(userID)
		if attempts >= domain.MaxRegistrationAttempts {
			s.store.SetBlacklisted(userID, true)
			s.publishEvent(ctx, events.Event{
				Type:    events.EventUserBlacklisted,
				ActorID: userID,
				Payload: events.UserBlacklistedPayload{
					UserID:   userID,
					Attempts: attempts,
				},
			})
			s.logger.Warn("user blacklisted after failed registrations",
				zap.Int64("user_id", userID),
				zap.Int("attempts", attempts))
			return domain.User{}, apperrors.NewForbidden("too many failed attempts, user is blacklisted")
		}
		remaining := domain.MaxRegistrationAttempts - attempts
		return domain.User{}, apperrors.NewUnauthorized(fmt.Sprintf("wrong password, %d attempts remaining", remaining))
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = fmt.Sprintf("User %d", userID)
	}
	s.store.AddUserIfAbsent(userID, trimmed)
	s.store.ResetAttempts(userID)
	user, _ := s.store.User(userID)
	return user, nil
}

// Login authenticates a registered user and issues a bearer token. Regular
// users present the shared password; admins present the operator password,
// which is verified against a bcrypt hash and never stored in the document.
func (s *RegistrationService) Login(ctx context.Context, userID int64, password string) (string, time.Time, error) {
	user, ok := s.store.User(userID)
	if !ok {
		return "", time.Time{}, apperrors.NewUnauthorized("unknown user")
	}
	if s.store.IsBlacklisted(userID) {
		return "", time.Time{}, apperrors.NewForbidden("user is blacklisted")
	}

	if user.IsAdmin {
		if s.adminPasswordHash == "" {
			return "", time.Time{}, apperrors.NewInternalError(fmt.Errorf("admin password hash not configured"))
		}
		if err := auth.ComparePassword(s.adminPasswordHash, password); err != nil {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
	} else {
		shared, ok := s.store.Password()
		if !ok || subtle.ConstantTimeCompare([]byte(shared), []byte(password)) != 1 {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
	}

	return s.tokens.GenerateToken(user.ID, user.IsAdmin)
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
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
