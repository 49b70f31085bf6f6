package action

import (
	"sort"
	"strings"
)

// Key is a single key identifier ("super", "shift", "up", "a", ...).
// Names are compared case-insensitively and stored lowercased.
type Key string

// Shift is the modifier consulted by reverse-cycle indexing.
const Shift Key = "shift"

// Escape force-closes an active session and is never forwarded.
const Escape Key = "escape"

// KeySet is an unordered set of unique key identifiers.
type KeySet map[Key]struct{}

// NewKeySet builds a set from key names, normalizing case.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[normalizeKey(k)] = struct{}{}
	}
	return s
}

func normalizeKey(k Key) Key {
	return Key(strings.ToLower(strings.TrimSpace(string(k))))
}

// Add returns a copy of the set with k added.
func (s KeySet) Add(k Key) KeySet {
	out := s.Clone()
	out[normalizeKey(k)] = struct{}{}
	return out
}

// Remove returns a copy of the set with k removed.
func (s KeySet) Remove(k Key) KeySet {
	out := s.Clone()
	delete(out, normalizeKey(k))
	return out
}

// Clone returns an independent copy of the set.
func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Contains reports whether k is in the set.
func (s KeySet) Contains(k Key) bool {
	_, ok := s[normalizeKey(k)]
	return ok
}

// ContainsAll reports whether every key of other is in the set.
func (s KeySet) ContainsAll(other KeySet) bool {
	for k := range other {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// Equals reports whether both sets hold exactly the same keys.
func (s KeySet) Equals(other KeySet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.ContainsAll(other)
}

// Union returns a new set holding the keys of both sets.
func (s KeySet) Union(other KeySet) KeySet {
	out := s.Clone()
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Subtract returns a new set holding the keys of s not present in other.
func (s KeySet) Subtract(other KeySet) KeySet {
	out := make(KeySet)
	for k := range s {
		if _, ok := other[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Canonical returns a stable string form ("shift+super+up") used as a
// lookup key by the action cache.
func (s KeySet) Canonical() string {
	keys := s.Sorted()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "+")
}

func (s KeySet) String() string {
	if len(s) == 0 {
		return "(none)"
	}
	return s.Canonical()
}

// MarshalYAML encodes the set as a sorted list of key names.
func (s KeySet) MarshalYAML() (interface{}, error) {
	keys := s.Sorted()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out, nil
}

// UnmarshalYAML decodes a list of key names.
func (s *KeySet) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return err
	}
	out := make(KeySet, len(names))
	for _, n := range names {
		out[normalizeKey(Key(n))] = struct{}{}
	}
	*s = out
	return nil
}
