package dotsboxes

import (
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	ttExact = 0x01
	ttLower = 0x02
	ttUpper = 0x03
)

const entrySize = 8

const depthMask = (1 << 6) - 1

// noEdge marks a table entry without a stored best move.
const noEdge = 0xff

// 8 bytes (entrySize)
type tableEntry struct {
	// The bucket index pins the bottom bits of the hash; storing the top
	// 4 bytes extends verification to 32+log2(size) bits. The bits in
	// between go unverified, which at these table sizes misreads a
	// position less than once per billions of probes.
	top4bytes    uint32
	score        int16
	flagAndDepth uint8
	play         uint8
}

func (t tableEntry) flag() uint8 {
	return t.flagAndDepth >> 6
}

func (t tableEntry) depth() int {
	return int(t.flagAndDepth & depthMask)
}

func (t tableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag() != 0
}

// TranspositionTable memoizes search values by zobrist hash. It is not
// locked; the searcher that owns it is single-threaded.
type TranspositionTable struct {
	table        []tableEntry
	created      uint64
	lookups      uint64
	hits         uint64
	t2collisions uint64
	sizePowerOf2 int
	sizeMask     uint64
}

// Reset sizes the table to the largest power of two fitting the given
// fraction of system memory and clears it. Floor 2^16, cap 2^24: a board
// of at most 7x7 boxes never fills more.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if t.sizePowerOf2 < 16 {
		t.sizePowerOf2 = 16
	}
	if t.sizePowerOf2 > 24 {
		t.sizePowerOf2 = 24
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]tableEntry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created = 0
	t.lookups = 0
	t.hits = 0
	t.t2collisions = 0
}

func (t *TranspositionTable) lookup(zval uint64) tableEntry {
	t.lookups++
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if !entry.valid() {
		return tableEntry{}
	}
	if entry.top4bytes != uint32(zval>>32) {
		// another node lives in this bucket
		t.t2collisions++
		return tableEntry{}
	}
	t.hits++
	return entry
}

func (t *TranspositionTable) store(zval uint64, score int16, flag uint8, depth int, play uint8) {
	idx := zval & t.sizeMask
	t.table[idx] = tableEntry{
		top4bytes:    uint32(zval >> 32),
		score:        score,
		flagAndDepth: flag<<6 | uint8(depth&depthMask),
		play:         play,
	}
	t.created++
}

func (t *TranspositionTable) Created() uint64 { return t.created }
func (t *TranspositionTable) Lookups() uint64 { return t.lookups }
func (t *TranspositionTable) Hits() uint64    { return t.hits }
