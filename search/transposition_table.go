package search

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/move"
)

const (
	ttExact = 0x01
	ttLower = 0x02
	ttUpper = 0x03
)

const entrySize = 24

// tableEntry is one transposition slot. The full 64-bit key is kept for
// verification; a colliding board position must never reuse another
// position's score.
type tableEntry struct {
	key   uint64
	score int32
	play  move.Move
	depth uint8
	flag  uint8
}

func (t tableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

// transpositionTable is a fixed-size power-of-two array keyed by the low
// bits of the zobrist hash. It is owned by a single Solver and cleared per
// request; there is no cross-request replacement scheme, so stale entries
// would otherwise poison an unrelated search.
type transpositionTable struct {
	table    []tableEntry
	sizeMask uint64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions: two positions sharing the same low bits.
	t2collisions atomic.Uint64
}

// minSizePowerOf2 keeps the table usable even on absurdly small memory
// fractions; maxSizePowerOf2 caps it, since a 9x7 game tree saturates far
// below what a fraction of a modern machine's RAM would allow.
const (
	minSizePowerOf2 = 16
	maxSizePowerOf2 = 24
)

func newTranspositionTable(fractionOfMemory float64) *transpositionTable {
	t := &transpositionTable{}
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	sizePowerOf2 := int(math.Log2(desiredNElems))
	if sizePowerOf2 < minSizePowerOf2 {
		sizePowerOf2 = minSizePowerOf2
	}
	if sizePowerOf2 > maxSizePowerOf2 {
		sizePowerOf2 = maxSizePowerOf2
	}
	numElems := 1 << sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	t.table = make([]tableEntry, numElems)
	log.Debug().Int("num-elems", numElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
	return t
}

// reset clears all entries and counters; called at the start of every
// top-level search request.
func (t *transpositionTable) reset() {
	clear(t.table)
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

func (t *transpositionTable) lookup(key uint64) tableEntry {
	t.lookups.Add(1)
	idx := key & t.sizeMask
	entry := t.table[idx]
	if entry.key != key {
		if entry.valid() {
			t.t2collisions.Add(1)
		}
		return tableEntry{}
	}
	t.hits.Add(1)
	return entry
}

// store writes an entry, but never replaces a deeper search result with a
// shallower non-exact one.
func (t *transpositionTable) store(key uint64, entry tableEntry) {
	idx := key & t.sizeMask
	old := t.table[idx]
	if old.valid() && old.key == key && old.depth > entry.depth && entry.flag != ttExact {
		return
	}
	entry.key = key
	t.table[idx] = entry
	t.created.Add(1)
}
