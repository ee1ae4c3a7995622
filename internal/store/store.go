package store

import (
	"sync"

	"github.com/noah-isme/tapp-client/internal/models"
)

// Store is the single normalized in-memory store: one flat collection per
// entity type, secondary indexes for per-assignment children, and the
// bookkeeping that scopes everything else (active session, active role,
// active user, mock-API flag). All mutations go through collection methods,
// so writes are serialized per collection; staleness is handled by the
// fetch-time guards in the client layer, not by locking.
type Store struct {
	Sessions          *Collection[int, models.Session]
	Applicants        *Collection[int, models.Applicant]
	Instructors       *Collection[int, models.Instructor]
	ContractTemplates *Collection[int, models.ContractTemplate]
	Positions         *Collection[int, models.Position]
	Applications      *Collection[int, models.Application]
	Assignments       *Collection[int, models.Assignment]
	Ddahs             *Collection[int, models.Ddah]
	Postings          *Collection[int, models.Posting]
	PostingPositions  *Collection[models.PostingPositionKey, models.PostingPosition]
	Preferences       *Collection[models.PreferenceKey, models.InstructorPreference]

	WageChunksByAssignment *ChildIndex[models.WageChunk]
	OffersByAssignment     *ChildIndex[models.Offer]

	mu            sync.RWMutex
	activeSession *models.Session
	activeRole    models.Role
	activeUser    *models.User
	mockAPI       bool
	stateVersion  uint64
}

// New builds an empty store.
func New() *Store {
	sessionID := func(s models.Session) int { return s.ID }
	return &Store{
		Sessions:          NewCollection(sessionID),
		Applicants:        NewCollection(func(a models.Applicant) int { return a.ID }),
		Instructors:       NewCollection(func(i models.Instructor) int { return i.ID }),
		ContractTemplates: NewCollection(func(t models.ContractTemplate) int { return t.ID }),
		Positions:         NewCollection(func(p models.Position) int { return p.ID }),
		Applications:      NewCollection(func(a models.Application) int { return a.ID }),
		Assignments:       NewCollection(func(a models.Assignment) int { return a.ID }),
		Ddahs:             NewCollection(func(d models.Ddah) int { return d.ID }),
		Postings:          NewCollection(func(p models.Posting) int { return p.ID }),
		PostingPositions: NewCollection(models.PostingPosition.Key),
		Preferences: NewCollection(models.InstructorPreference.Key),

		WageChunksByAssignment: NewChildIndex[models.WageChunk](),
		OffersByAssignment:     NewChildIndex[models.Offer](),
	}
}

// ActiveSession returns the currently active session, if one is set.
func (s *Store) ActiveSession() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeSession == nil {
		return models.Session{}, false
	}
	return *s.activeSession, true
}

// ActiveSessionID returns the active session id, or 0 if none is set.
func (s *Store) ActiveSessionID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeSession == nil {
		return 0
	}
	return s.activeSession.ID
}

// SetActiveSession marks the given session active. Callers that change the
// session are responsible for triggering the downstream cascade.
func (s *Store) SetActiveSession(session models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := session
	s.activeSession = &cp
	s.stateVersion++
}

// UnsetActiveSession clears the active session.
func (s *Store) UnsetActiveSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSession = nil
	s.stateVersion++
}

// ActiveRole returns the currently selected view role.
func (s *Store) ActiveRole() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRole
}

// SetActiveRole selects the view role.
func (s *Store) SetActiveRole(role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRole = role
	s.stateVersion++
}

// ActiveUser returns the authenticated user, if known.
func (s *Store) ActiveUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeUser == nil {
		return models.User{}, false
	}
	return *s.activeUser, true
}

// SetActiveUser records the authenticated user.
func (s *Store) SetActiveUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := user
	s.activeUser = &cp
	s.stateVersion++
}

// MockAPI reports whether the mock transport is selected.
func (s *Store) MockAPI() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mockAPI
}

// SetMockAPI toggles the mock transport flag.
func (s *Store) SetMockAPI(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mockAPI = on
	s.stateVersion++
}

// StateVersion returns the bookkeeping mutation counter.
func (s *Store) StateVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateVersion
}

// ClearSessionData empties every session-scoped collection and both child
// indexes. It runs synchronously so the UI can never observe the previous
// session's data once a session or role change begins.
func (s *Store) ClearSessionData() {
	s.Applicants.ReplaceAll(nil)
	s.ContractTemplates.ReplaceAll(nil)
	s.Positions.ReplaceAll(nil)
	s.Applications.ReplaceAll(nil)
	s.Assignments.ReplaceAll(nil)
	s.Ddahs.ReplaceAll(nil)
	s.Postings.ReplaceAll(nil)
	s.PostingPositions.ReplaceAll(nil)
	s.Preferences.ReplaceAll(nil)
	s.WageChunksByAssignment.Clear()
	s.OffersByAssignment.Clear()
}
