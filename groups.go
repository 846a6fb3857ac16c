package dashbin

import (
	"strings"

	"github.com/google/uuid"
)

// Group is a named, independently ordered collection of records. Membership
// is by copy: a record added to a group gets a fresh id, so editing the
// group copy never silently rewrites the history entry it came from. Callers
// that want history edits reflected in groups do so explicitly through
// PropagateEdit.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// --- Group Methods ---

// Groups returns copies of every group in creation order.
func (s *Store) Groups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, groups := s.snapshotInternal()
	return groups
}

// CreateGroup adds an empty named group and returns its id. The trimmed
// name must be non-empty.
func (s *Store) CreateGroup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.groups = append(s.groups, Group{ID: id, Name: name})
	s.mu.Unlock()
	s.persist()
	return id, true
}

// RenameGroup changes a group's name.
func (s *Store) RenameGroup(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s.mu.Lock()
	ok := false
	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups[i].Name = name
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// DeleteGroup removes a group and its member copies.
func (s *Store) DeleteGroup(id string) bool {
	s.mu.Lock()
	ok := false
	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// AddToGroup appends a copy of rec to the group, under a fresh id so the
// copy and the original evolve independently. The stored copy is returned.
func (s *Store) AddToGroup(groupID string, rec Record) (Record, bool) {
	member := rec
	member.ID = uuid.NewString()
	s.mu.Lock()
	ok := false
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups[i].Records = append(s.groups[i].Records, member)
			ok = true
			break
		}
	}
	s.mu.Unlock()
	if !ok {
		return Record{}, false
	}
	s.persist()
	return member, true
}

// RemoveFromGroup deletes a member copy from a group by its (copy) id.
func (s *Store) RemoveFromGroup(groupID, recordID string) bool {
	s.mu.Lock()
	ok := false
	for i := range s.groups {
		if s.groups[i].ID != groupID {
			continue
		}
		members := s.groups[i].Records
		for j := range members {
			if members[j].ID == recordID {
				s.groups[i].Records = append(members[:j], members[j+1:]...)
				ok = true
				break
			}
		}
		break
	}
	s.mu.Unlock()
	if ok {
		s.persist()
	}
	return ok
}

// PropagateEdit rewrites every group member whose text equals oldText,
// keeping displayed text consistent after a history edit. It returns how
// many members changed. This is the explicit opt-in counterpart to
// membership-by-copy.
func (s *Store) PropagateEdit(oldText, newText string) int {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return 0
	}
	s.mu.Lock()
	n := 0
	for i := range s.groups {
		for j := range s.groups[i].Records {
			if s.groups[i].Records[j].Text == oldText {
				s.groups[i].Records[j].Text = newText
				n++
			}
		}
	}
	s.mu.Unlock()
	if n > 0 {
		s.persist()
	}
	return n
}
