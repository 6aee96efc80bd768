// Package dirtyset implements the per-instance dirty-field tracker every record
// embeds: a compact bitset for small field indices, an overflow set for the
// rest, and an O(1) "has any dirty" check backed by a running counter.
package dirtyset

import (
	"slices"

	"github.com/bearlytools/recordmodel/internal/bits"
)

// threshold is the highest field index (exclusive) tracked by the bitset; at
// and above it, indices live only in the overflow set. Field indices run
// 1..65535 (§4.1), so most schemas never spill into overflow.
const threshold = 1024

const wordBits = 64
const words = threshold / wordBits

// Set is a per-instance collection of dirty field indices. The zero value is
// a valid, empty Set.
type Set struct {
	bitset   [words]uint64
	overflow map[uint16]struct{}
	count    int
}

// IsDirty reports whether index is currently marked dirty.
func (s *Set) IsDirty(index uint16) bool {
	if s == nil {
		return false
	}
	if uint64(index) < threshold {
		word, pos := index/wordBits, uint8(index%wordBits)
		return bits.GetBit(s.bitset[word], pos)
	}
	if s.overflow == nil {
		return false
	}
	_, ok := s.overflow[index]
	return ok
}

// SetDirty marks index as dirty.
func (s *Set) SetDirty(index uint16) {
	if s.IsDirty(index) {
		return
	}
	if uint64(index) < threshold {
		word, pos := index/wordBits, uint8(index%wordBits)
		s.bitset[word] = bits.SetBit(s.bitset[word], pos, true)
	} else {
		if s.overflow == nil {
			s.overflow = make(map[uint16]struct{})
		}
		s.overflow[index] = struct{}{}
	}
	s.count++
}

// ClearDirty removes index from the dirty set, if present.
func (s *Set) ClearDirty(index uint16) {
	if !s.IsDirty(index) {
		return
	}
	if uint64(index) < threshold {
		word, pos := index/wordBits, uint8(index%wordBits)
		s.bitset[word] = bits.ClearBit(s.bitset[word], pos)
	} else {
		delete(s.overflow, index)
	}
	s.count--
}

// HasAnyDirty reports, in constant time, whether any field index is dirty.
func (s *Set) HasAnyDirty() bool {
	if s == nil {
		return false
	}
	return s.count > 0
}

// ClearAll clears every dirty index.
func (s *Set) ClearAll() {
	if s == nil {
		return
	}
	for i := range s.bitset {
		s.bitset[i] = 0
	}
	if len(s.overflow) > 0 {
		s.overflow = nil
	}
	s.count = 0
}

// Each calls fn once for every currently dirty field index, ascending.
func (s *Set) Each(fn func(index uint16)) {
	if s == nil {
		return
	}
	for word, w := range s.bitset {
		if w == 0 {
			continue
		}
		for pos := uint8(0); pos < wordBits; pos++ {
			if bits.GetBit(w, pos) {
				fn(uint16(word*wordBits) + uint16(pos))
			}
		}
	}
	if len(s.overflow) == 0 {
		return
	}
	over := make([]uint16, 0, len(s.overflow))
	for idx := range s.overflow {
		over = append(over, idx)
	}
	slices.Sort(over)
	for _, idx := range over {
		fn(idx)
	}
}
