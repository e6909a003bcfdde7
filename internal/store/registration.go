package store

import "github.com/groupcart/order-collector/internal/domain"

// Registration returns the attempt/blacklist record for id.
func (s *Store) Registration(id int64) (domain.Registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.registrations {
		if r.UserID == id {
			return r, true
		}
	}
	return domain.Registration{}, false
}

// IncrementAttempts bumps the failed-attempt counter, creating the record on
// first use, and returns the new count.
func (s *Store) IncrementAttempts(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.registrationLocked(id)
	rec.Attempts++
	s.upsertRegistrationLocked(rec)
	return rec.Attempts
}

// ResetAttempts zeroes the failed-attempt counter.
func (s *Store) ResetAttempts(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.registrationLocked(id)
	rec.Attempts = 0
	s.upsertRegistrationLocked(rec)
}

// SetBlacklisted flips the blacklist flag. The flag is terminal until an
// admin clears it explicitly.
func (s *Store) SetBlacklisted(id int64, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.registrationLocked(id)
	rec.Blacklisted = value
	s.upsertRegistrationLocked(rec)
}

// IsBlacklisted reports the blacklist flag for id.
func (s *Store) IsBlacklisted(id int64) bool {
	r, ok := s.Registration(id)
	return ok && r.Blacklisted
}

// Blacklist returns the ids of all blacklisted users.
func (s *Store) Blacklist() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for _, r := range s.registrations {
		if r.Blacklisted {
			out = append(out, r.UserID)
		}
	}
	return out
}

func (s *Store) registrationLocked(id int64) domain.Registration {
	for _, r := range s.registrations {
		if r.UserID == id {
			return r
		}
	}
	return domain.Registration{UserID: id}
}

func (s *Store) upsertRegistrationLocked(rec domain.Registration) {
	for i := range s.registrations {
		if s.registrations[i].UserID == rec.UserID {
			s.registrations[i] = rec
			s.markDirty()
			return
		}
	}
	s.registrations = append(s.registrations, rec)
	s.markDirty()
}
