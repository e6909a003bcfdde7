package store

// IsOpen reports whether order intake is currently accepted.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectionOpen
}

// SetOpen flips the collection gate. The flip has no cascading effects by
// itself: starting a new collection pairs RolloverToArchive with
// SetOpen(true), reopening the existing one calls SetOpen(true) alone.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionOpen == open {
		return
	}
	s.collectionOpen = open
	s.markDirty()
}

// Password returns the shared registration password, with ok=false when no
// password is configured (registration and intake are refused then).
func (s *Store) Password() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.password == nil {
		return "", false
	}
	return *s.password, true
}

// SetPassword replaces the shared registration password.
func (s *Store) SetPassword(pwd string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = &pwd
	s.markDirty()
}

// ClearPassword removes the shared password, closing registration until a
// new one is set.
func (s *Store) ClearPassword() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.password == nil {
		return
	}
	s.password = nil
	s.markDirty()
}
