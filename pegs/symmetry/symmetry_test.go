package symmetry

import (
	"testing"

	"github.com/matryer/is"
	"github.com/mvilches/ludoteca/pegs"
)

// fixtures walks a fixed line of play to produce asymmetric mid-game states.
func fixtures() []pegs.State {
	states := []pegs.State{pegs.InitialState()}
	s := pegs.InitialState()
	for i := 0; i < 6; i++ {
		moves := s.LegalMoves()
		if len(moves) == 0 {
			break
		}
		s = s.Apply(moves[0])
		states = append(states, s)
	}
	return states
}

func TestIdentityTransform(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		is.Equal(Apply(s, 0), s)
	}
}

func TestRotationOrder(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		r := Apply(Apply(Apply(Apply(s, 1), 1), 1), 1)
		is.Equal(r, s)
	}
}

func TestReflectionsAreInvolutions(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		for k := 4; k < NumTransforms; k++ {
			is.Equal(Apply(Apply(s, k), k), s)
		}
	}
}

func TestPegCountPreserved(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		for k := 0; k < NumTransforms; k++ {
			is.Equal(Apply(s, k).PegCount(), s.PegCount())
		}
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		canon := Canonical(s)
		is.Equal(Canonical(canon), canon)
		is.True(canon <= s)
	}
}

func TestCanonicalInvariantUnderTransforms(t *testing.T) {
	is := is.New(t)
	for _, s := range fixtures() {
		canon := Canonical(s)
		for k := 0; k < NumTransforms; k++ {
			is.Equal(Canonical(Apply(s, k)), canon)
		}
	}
}

func TestFullySymmetricStates(t *testing.T) {
	is := is.New(t)
	// The opening position and the goal are fixed points of the group.
	is.Equal(Canonical(pegs.InitialState()), pegs.InitialState())
	goal := pegs.State(1) << pegs.CenterIndex
	is.Equal(Canonical(goal), goal)
}
