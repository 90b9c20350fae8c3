package mockusers

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateEmail is returned by Create when another record has the same email,
	// ignoring case.
	ErrDuplicateEmail = errors.New("users_email_key")

	// ErrNotFound is returned by Update when no record has the requested id.
	ErrNotFound = errors.New("user not found")
)

// IDGenerator produces ids for records created without one.
type IDGenerator func() string

// RandomIDs generates random UUIDs.
func RandomIDs() string { return uuid.NewString() }

// Store is an ordered table of users keyed by id. Iteration follows insertion order; replacing
// a record keeps its original position. Every method takes the same lock, so compound
// operations such as Create are atomic.
type Store struct {
	order   []string
	records map[string]User
	newID   IDGenerator
	lock    sync.Mutex
}

// NewStore creates an empty store. A nil generator means RandomIDs.
func NewStore(newID IDGenerator) *Store {
	if newID == nil {
		newID = RandomIDs
	}
	return &Store{
		records: make(map[string]User),
		newID:   newID,
	}
}

// Reset clears the store and, if seed is non-nil, inserts it, assigning an id if it has
// none. It returns the stored seed.
func (s *Store) Reset(seed *User) (User, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.order = nil
	s.records = make(map[string]User)
	if seed == nil {
		return User{}, false
	}
	u := s.ensureID(*seed)
	s.put(u)
	return u, true
}

// List returns the records for which match returns true, in insertion order. A nil match
// selects everything. The result is never nil.
func (s *Store) List(match func(User) bool) []User {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := make([]User, 0, len(s.order))
	for _, id := range s.order {
		u := s.records[id]
		if match == nil || match(u) {
			ret = append(ret, u)
		}
	}
	return ret
}

// Get returns the record with the given id, if there is one.
func (s *Store) Get(id string) (User, bool) {
	s.lock.Lock()
	u, ok := s.records[id]
	s.lock.Unlock()
	return u, ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.lock.Lock()
	n := len(s.order)
	s.lock.Unlock()
	return n
}

// Create inserts u unless another record already uses its email (case-insensitively), in
// which case it returns ErrDuplicateEmail. A blank id is replaced with a generated one that
// is not already in use. An explicit id that is already in use replaces that record in place.
func (s *Store) Create(u User) (User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, existing := range s.records {
		if strings.EqualFold(existing.Email, u.Email) {
			return User{}, ErrDuplicateEmail
		}
	}
	u = s.ensureID(u)
	s.put(u)
	return u, nil
}

// Update merges the non-blank fields of patch into the record with the given id.
func (s *Store) Update(id string, patch User) (User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	existing, ok := s.records[id]
	if !ok {
		return User{}, ErrNotFound
	}
	updated := existing.merge(patch)
	updated.ID = existing.ID
	s.records[id] = updated
	return updated, nil
}

// Remove deletes each of the given ids that exists and returns how many were removed.
func (s *Store) Remove(ids ...string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.records[id]; !ok {
			continue
		}
		delete(s.records, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		removed++
	}
	return removed
}

// caller holds the lock
func (s *Store) ensureID(u User) User {
	if !isBlank(u.ID) {
		return u
	}
	for {
		id := s.newID()
		if _, taken := s.records[id]; !taken && !isBlank(id) {
			u.ID = id
			return u
		}
	}
}

// caller holds the lock
func (s *Store) put(u User) {
	if _, ok := s.records[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.records[u.ID] = u
}
