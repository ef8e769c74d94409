package dotsboxes

import (
	"math/bits"

	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// Zobrist hashes positions for the transposition table. Keys cover the
// edge masks, the side to move, and both running scores: two positions
// with identical edges can carry different scores depending on who drew
// the closing edges, and score-blind keys would merge them.
type Zobrist struct {
	hKeys    [64]uint64
	vKeys    [64]uint64
	p1Turn   uint64
	scoreKey [2][64]uint64
}

func (z *Zobrist) Initialize(b *Board) {
	for i := 0; i < (b.rows+1)*b.cols; i++ {
		z.hKeys[i] = frand.Uint64n(bignum) + 1
	}
	for i := 0; i < b.rows*(b.cols+1); i++ {
		z.vKeys[i] = frand.Uint64n(bignum) + 1
	}
	z.p1Turn = frand.Uint64n(bignum) + 1
	for p := 0; p < 2; p++ {
		for sc := 0; sc <= b.NumBoxes(); sc++ {
			z.scoreKey[p][sc] = frand.Uint64n(bignum) + 1
		}
	}
}

func (z *Zobrist) Hash(p Position) uint64 {
	key := uint64(0)
	for m := p.HMask; m != 0; m &= m - 1 {
		key ^= z.hKeys[bits.TrailingZeros64(m)]
	}
	for m := p.VMask; m != 0; m &= m - 1 {
		key ^= z.vKeys[bits.TrailingZeros64(m)]
	}
	if p.Turn == 1 {
		key ^= z.p1Turn
	}
	key ^= z.scoreKey[0][p.Scores[0]]
	key ^= z.scoreKey[1][p.Scores[1]]
	return key
}
