package solver

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	entrySize = 8
	// keyBits is the width of the key fragment kept in each entry. Keys of
	// a 7x6 board fit in 49 bits, so the fragment is the whole key.
	keyBits = 56
	keyMask = 1<<keyBits - 1

	minTableEntries = 1 << 16
	maxTableEntries = 1 << 27
)

// TableStats are counters kept since the last Clear.
type TableStats struct {
	Lookups uint64
	Hits    uint64
	Stores  uint64
	// Collisions counts lookups that found a slot holding another key.
	Collisions uint64
}

// TranspositionTable is a direct-mapped cache from position keys to 8-bit
// scores. Each slot is one uint64: the key fragment in the high 56 bits and
// the score in the low byte. A zero slot is empty, so a zero score stored
// under key 0 reads back as a miss.
//
// The table has a single owner; it is not safe for concurrent use.
type TranspositionTable struct {
	table []uint64
	size  uint64
	stats TableStats
}

// NewTranspositionTable allocates a table with at least minEntries slots.
// The slot count is rounded up to a prime so that regular key patterns
// spread over the whole table.
func NewTranspositionTable(minEntries int) *TranspositionTable {
	if minEntries < 1 {
		minEntries = 1
	}
	size := nextPrime(uint64(minEntries))
	log.Debug().Uint64("num-elems", size).
		Uint64("estimated-total-memory-bytes", size*entrySize).
		Msg("transposition-table-size")
	return &TranspositionTable{
		table: make([]uint64, size),
		size:  size,
	}
}

// NewTranspositionTableForMemory sizes the table as a fraction of the
// system's physical memory.
func NewTranspositionTableForMemory(fractionOfMemory float64) *TranspositionTable {
	totalMem := memory.TotalMemory()
	desired := int(fractionOfMemory * float64(totalMem) / entrySize)
	switch {
	case desired < minTableEntries:
		desired = minTableEntries
	case desired > maxTableEntries:
		desired = maxTableEntries
	}
	log.Debug().Uint64("total-system-memory-bytes", totalMem).
		Float64("fraction", fractionOfMemory).
		Int("desired-num-elems", desired).
		Msg("sizing-transposition-table")
	return NewTranspositionTable(desired)
}

func (t *TranspositionTable) index(key uint64) uint64 {
	return key % t.size
}

// Get returns the score stored for key. Empty slots and slots holding a
// different key are both misses.
func (t *TranspositionTable) Get(key uint64) (uint8, bool) {
	t.stats.Lookups++
	e := t.table[t.index(key)]
	if e == 0 {
		return 0, false
	}
	if e>>8 != key&keyMask {
		t.stats.Collisions++
		return 0, false
	}
	t.stats.Hits++
	return uint8(e), true
}

// Set overwrites whatever occupies key's slot.
func (t *TranspositionTable) Set(key uint64, score uint8) {
	t.table[t.index(key)] = (key&keyMask)<<8 | uint64(score)
	t.stats.Stores++
}

// Clear empties every slot and resets the counters.
func (t *TranspositionTable) Clear() {
	clear(t.table)
	t.stats = TableStats{}
}

// Size is the number of slots.
func (t *TranspositionTable) Size() int {
	return int(t.size)
}

func (t *TranspositionTable) Stats() TableStats {
	return t.stats
}

// nextPrime returns the smallest prime >= n.
func nextPrime(n uint64) uint64 {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}
	return n
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for f := uint64(3); f*f <= n; f += 2 {
		if n%f == 0 {
			return false
		}
	}
	return true
}
