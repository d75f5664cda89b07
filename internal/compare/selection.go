// Package compare holds the user's product comparison selection: a small
// ordered set of product ids persisted client-side and resolved against the
// store when the comparison table is built.
package compare

import (
	"encoding/json"

	"github.com/google/uuid"
)

// MaxCompared is the number of products the comparison table shows. The
// selection itself is not capped at add time; truncation happens when the
// table is built.
const MaxCompared = 4

// maxStored bounds the persisted id list so the backing slot (a cookie)
// stays small. It is intentionally far above MaxCompared.
const maxStored = 24

// Slot is the single persisted key-value cell holding the JSON-encoded id
// array. The HTTP layer backs it with a signed cookie.
type Slot interface {
	Get() (string, bool)
	Set(value string)
}

// Store reads and mutates the selection through a Slot.
type Store struct {
	slot Slot
}

func NewStore(slot Slot) *Store { return &Store{slot: slot} }

// List returns the current ordered selection. A missing or malformed slot
// value yields an empty selection, never an error.
func (s *Store) List() []uuid.UUID {
	raw, ok := s.slot.Get()
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Add appends id if not already present and returns the updated selection.
func (s *Store) Add(id uuid.UUID) []uuid.UUID {
	ids := s.List()
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	if len(ids) >= maxStored {
		return ids
	}
	ids = append(ids, id)
	s.persist(ids)
	return ids
}

// Remove deletes id if present; removing an absent id is a no-op.
func (s *Store) Remove(id uuid.UUID) []uuid.UUID {
	ids := s.List()
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			s.persist(ids)
			return ids
		}
	}
	return ids
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.persist(nil)
}

func (s *Store) persist(ids []uuid.UUID) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	b, _ := json.Marshal(strs)
	s.slot.Set(string(b))
}
