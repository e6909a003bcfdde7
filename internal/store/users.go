package store

import "github.com/groupcart/order-collector/internal/domain"

// User returns the directory entry for id.
func (s *Store) User(id int64) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(id)
}

func (s *Store) userLocked(id int64) (domain.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UserExists reports whether id is registered.
func (s *Store) UserExists(id int64) bool {
	_, ok := s.User(id)
	return ok
}

// UserName returns the display name for id, empty when unknown.
func (s *Store) UserName(id int64) string {
	u, _ := s.User(id)
	return u.Name
}

// IsAdmin reports whether id is a known admin.
func (s *Store) IsAdmin(id int64) bool {
	u, ok := s.User(id)
	return ok && u.IsAdmin
}

// Users returns all directory entries in insertion order.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

// UpsertUser inserts or replaces a directory entry by id.
func (s *Store) UpsertUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == u.ID {
			if s.users[i] == u {
				return
			}
			s.users[i] = u
			s.markDirty()
			return
		}
	}
	s.users = append(s.users, u)
	s.markDirty()
}

// AddUserIfAbsent creates a non-admin entry when id is unknown, reporting
// whether it was created.
func (s *Store) AddUserIfAbsent(id int64, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userLocked(id); ok {
		return false
	}
	s.users = append(s.users, domain.User{ID: id, Name: name})
	s.markDirty()
	return true
}

// SetName updates the display name, skipping the write entirely when the
// name is unchanged to limit persistence churn. Reports whether anything
// changed.
func (s *Store) SetName(id int64, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			if s.users[i].Name == name {
				return false
			}
			s.users[i].Name = name
			s.markDirty()
			return true
		}
	}
	return false
}

// SetAdmin flips the admin flag, reporting whether the user exists.
func (s *Store) SetAdmin(id int64, admin bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			if s.users[i].IsAdmin != admin {
				s.users[i].IsAdmin = admin
				s.markDirty()
			}
			return true
		}
	}
	return false
}

// RemoveUser deletes the directory entry together with every order in both
// partitions and the registration record. The cascade runs in one critical
// section: no reader ever observes orders for an already-deleted user.
func (s *Store) RemoveUser(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	s.orders = dropUserOrders(s.orders, id)
	s.archived = dropUserOrders(s.archived, id)
	for i := range s.registrations {
		if s.registrations[i].UserID == id {
			s.registrations = append(s.registrations[:i], s.registrations[i+1:]...)
			break
		}
	}
	s.markDirty()
	return true
}

func dropUserOrders(orders []domain.Order, userID int64) []domain.Order {
	kept := orders[:0]
	for _, o := range orders {
		if o.UserID != userID {
			kept = append(kept, o)
		}
	}
	return kept
}
