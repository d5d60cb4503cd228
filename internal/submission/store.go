package submission

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/copyscn/domain"
)

// Submission is one student's answer. It is immutable once stored.
type Submission struct {
	ID        string
	Name      string
	Email     string
	Raw       string
	Canonical string
}

// Store maps student ids to submissions. A store belongs to a single run and
// is not safe for concurrent writes.
type Store struct {
	byID map[string]Submission
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{byID: make(map[string]Submission)}
}

// Put stores sub, replacing any earlier submission with the same id.
// It reports whether a replacement happened.
func (s *Store) Put(sub Submission) bool {
	_, replaced := s.byID[sub.ID]
	s.byID[sub.ID] = sub
	return replaced
}

// Get returns the submission for id
func (s *Store) Get(id string) (Submission, bool) {
	sub, ok := s.byID[id]
	return sub, ok
}

// Canonical returns the canonical form for id
func (s *Store) Canonical(id string) (string, bool) {
	sub, ok := s.byID[id]
	return sub.Canonical, ok
}

// IDs returns every id in lexicographic order
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of stored submissions
func (s *Store) Len() int {
	return len(s.byID)
}

// StudentID derives the student id from an email address: the lowercased
// local part before '@'. An address without a local part is invalid input.
func StudentID(email string) (string, error) {
	email = strings.TrimSpace(email)
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	local = strings.ToLower(strings.TrimSpace(local))
	if local == "" {
		return "", domain.NewInvalidInputError(fmt.Sprintf("email has no local part: %q", email), nil)
	}
	return local, nil
}
