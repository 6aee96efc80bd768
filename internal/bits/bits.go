// Package bits provides small generic bit-twiddling helpers on fixed-width
// unsigned integers, used by dirtyset's bitset. Trimmed from the teacher's internal/bits (which also
// covered arbitrary-width byte-slice bit storage for variable-length struct
// headers, a concern this module's fixed-width field slots never have) down
// to the single-word operations this module actually exercises.
package bits

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// GetBit gets a single bit value from "store" in position "pos". true if set, false if not.
func GetBit[U constraints.Unsigned](store U, pos uint8) bool {
	switch any(store).(type) {
	case uint8:
		if pos > 7 {
			panic(fmt.Sprintf("can't GetBit() a uint8 position %d", pos))
		}
	case uint16:
		if pos > 15 {
			panic(fmt.Sprintf("can't GetBit() a uint16 position %d", pos))
		}
	case uint32:
		if pos > 31 {
			panic(fmt.Sprintf("can't GetBit() a uint32 position %d", pos))
		}
	case uint64:
		if pos > 63 {
			panic(fmt.Sprintf("can't GetBit() a uint64 position %d", pos))
		}
	}
	return store&(1<<pos) != 0
}

// SetBit sets a single bit in "store" at position "pos" to value "val". If val is true,
// the bit is set to 1, if false, it is set to 0.
func SetBit[U constraints.Unsigned](store U, pos uint8, val bool) U {
	switch any(store).(type) {
	case uint8:
		if pos > 7 {
			panic(fmt.Sprintf("can't SetBit() a uint8 position %d", pos))
		}
	case uint16:
		if pos > 15 {
			panic(fmt.Sprintf("can't SetBit() a uint16 position %d", pos))
		}
	case uint32:
		if pos > 31 {
			panic(fmt.Sprintf("can't SetBit() a uint32 position %d", pos))
		}
	case uint64:
		if pos > 63 {
			panic(fmt.Sprintf("can't SetBit() a uint64 position %d", pos))
		}
	}
	if val {
		return store | (1 << pos)
	}

	return store & ^(1 << pos)
}

// ClearBit clears the bit at pos in store.
func ClearBit[U constraints.Unsigned](store U, pos uint8) U {
	store &^= (1 << pos)
	return store
}
