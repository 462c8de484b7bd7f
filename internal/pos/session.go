package pos

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/ledger"
)

// Session is one POS screen instance. It owns its cart exclusively; carts are
// never shared across sessions. The submitting flag serializes checkout so at
// most one facture creation is in flight per cart.
type Session struct {
	ID        string
	UserID    string
	DepotCode string
	Cart      *ledger.Cart

	mu         sync.Mutex
	submitting bool
}

// BeginSubmit reports whether the caller won the right to submit. A false
// return means another submission is already in flight.
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit resets the submission flag. It runs in a deferred path so a failed
// submission can never leave the cart locked.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// Store holds the active sessions in memory. Sessions live for the duration of
// the operator's shift on a workstation; there is no persistence.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Create(userID, depotCode string, rate decimal.Decimal) *Session {
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		DepotCode: depotCode,
		Cart:      ledger.NewCart(rate),
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session
}

func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
