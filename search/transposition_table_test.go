package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/AlanRexcop/animal-chess/move"
)

func TestTableStoreAndLookup(t *testing.T) {
	is := is.New(t)
	tt := newTranspositionTable(0.001)
	is.True(len(tt.table) >= 1<<minSizePowerOf2)
	is.Equal(tt.sizeMask, uint64(len(tt.table)-1))

	const key = 0xdeadbeefcafe
	tt.store(key, tableEntry{score: 42, depth: 3, flag: ttExact, play: move.New(6, 0, 5, 0)})
	entry := tt.lookup(key)
	is.True(entry.valid())
	is.Equal(entry.score, int32(42))
	is.Equal(entry.depth, uint8(3))
	is.True(entry.play.Equals(move.New(6, 0, 5, 0)))
	is.Equal(tt.hits.Load(), uint64(1))
}

func TestLookupVerifiesFullKey(t *testing.T) {
	is := is.New(t)
	tt := newTranspositionTable(0.001)

	const key = uint64(17)
	// Same low bits, different position.
	collider := key + (tt.sizeMask+1)*3

	tt.store(key, tableEntry{score: 9, depth: 2, flag: ttLower})
	entry := tt.lookup(collider)
	is.True(!entry.valid())
	is.Equal(tt.t2collisions.Load(), uint64(1))
	is.Equal(tt.hits.Load(), uint64(0))
}

func TestStoreKeepsDeeperResults(t *testing.T) {
	is := is.New(t)
	tt := newTranspositionTable(0.001)
	const key = uint64(99)

	tt.store(key, tableEntry{score: 10, depth: 5, flag: ttLower})
	// A shallower bound does not evict a deeper one.
	tt.store(key, tableEntry{score: 20, depth: 2, flag: ttUpper})
	is.Equal(tt.lookup(key).depth, uint8(5))

	// A shallower exact result does.
	tt.store(key, tableEntry{score: 30, depth: 1, flag: ttExact})
	entry := tt.lookup(key)
	is.Equal(entry.depth, uint8(1))
	is.Equal(entry.score, int32(30))
}

func TestResetClearsEntriesAndCounters(t *testing.T) {
	is := is.New(t)
	tt := newTranspositionTable(0.001)
	tt.store(7, tableEntry{score: 1, depth: 1, flag: ttExact})
	tt.lookup(7)

	tt.reset()
	is.True(!tt.lookup(7).valid())
	is.Equal(tt.created.Load(), uint64(0))
	is.Equal(tt.hits.Load(), uint64(0))
}
