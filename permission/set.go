package permission

import (
	"math/bits"
	"strings"
)

// Set is an immutable value-type collection of permissions backed by a
// single 64-bit mask. The catalog is well under 64 entries, so membership,
// union, and subset checks are single machine-word operations.
type Set uint64

// NewSet builds a Set from individual permissions. Invalid values are
// ignored rather than reported; the catalog is closed, so they can only
// arise from corrupted input.
func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		s = s.With(p)
	}
	return s
}

func (s Set) bit(p Permission) Set {
	return 1 << (uint(p) - 1)
}

// Has reports whether p is a member of the set.
func (s Set) Has(p Permission) bool {
	if !p.Valid() {
		return false
	}
	return s&s.bit(p) != 0
}

// With returns a copy of s with p added.
func (s Set) With(p Permission) Set {
	if !p.Valid() {
		return s
	}
	return s | s.bit(p)
}

// Without returns a copy of s with p removed.
func (s Set) Without(p Permission) Set {
	if !p.Valid() {
		return s
	}
	return s &^ s.bit(p)
}

// Union returns the set of permissions present in either operand.
func (s Set) Union(o Set) Set {
	return s | o
}

// ContainsAll reports whether every member of o is also a member of s.
func (s Set) ContainsAll(o Set) bool {
	return s&o == o
}

// Len returns the number of permissions in the set.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IsEmpty reports whether the set holds no permissions.
func (s Set) IsEmpty() bool {
	return s == 0
}

// List returns the members in catalog declaration order.
func (s Set) List() []Permission {
	out := make([]Permission, 0, s.Len())
	for p := ProductsView; p.Valid(); p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns the namespaced tag of every member, in catalog order.
func (s Set) Tags() []string {
	members := s.List()
	out := make([]string, len(members))
	for i, p := range members {
		out[i] = p.String()
	}
	return out
}

// String renders the set as a comma-joined tag list, mainly for logs
// and test failure messages.
func (s Set) String() string {
	return strings.Join(s.Tags(), ",")
}
