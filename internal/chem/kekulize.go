package chem

import (
	"errors"
	"fmt"
)

// ErrKekulize reports an aromatic system with no valid alternating bond
// assignment, such as "c1cccc1".
var ErrKekulize = errors.New("chem: cannot kekulize aromatic system")

// maxKekuleSteps bounds the matching search on pathological inputs.
const maxKekuleSteps = 1 << 20

// Kekulize assigns single and double orders to aromatic bonds so that every
// aromatic atom that still lacks one unit of valence receives exactly one
// double bond. Aromatic flags are left untouched.
func (m *Molecule) Kekulize() error {
	var aromaticBonds []*Bond
	for _, b := range m.Bonds {
		if b.Aromatic {
			b.Order = BondSingle
			aromaticBonds = append(aromaticBonds, b)
		}
	}
	if len(aromaticBonds) == 0 {
		return nil
	}

	needs := make([]bool, len(m.Atoms))
	for _, a := range m.Atoms {
		if a.Aromatic {
			needs[a.Index] = m.needsDoubleBond(a.Index)
		}
	}

	// candidate partners per needing atom over aromatic bonds
	partners := make(map[int][]*Bond)
	var pending []int
	for _, b := range aromaticBonds {
		if needs[b.Begin] && needs[b.End] {
			partners[b.Begin] = append(partners[b.Begin], b)
			partners[b.End] = append(partners[b.End], b)
		}
	}
	for i, n := range needs {
		if n {
			if len(partners[i]) == 0 {
				return fmt.Errorf("%w: atom %d (%s) has no aromatic partner", ErrKekulize, i, m.Atoms[i].Symbol())
			}
			pending = append(pending, i)
		}
	}
	if len(pending)%2 == 1 {
		return fmt.Errorf("%w: odd number of atoms need a double bond", ErrKekulize)
	}

	matched := make([]bool, len(m.Atoms))
	var chosen []*Bond
	steps := 0

	var solve func() bool
	solve = func() bool {
		steps++
		if steps > maxKekuleSteps {
			return false
		}
		// branch on the unmatched atom with the fewest free partners
		best, bestFree := -1, 1<<30
		for _, i := range pending {
			if matched[i] {
				continue
			}
			free := 0
			for _, b := range partners[i] {
				if !matched[b.Other(i)] {
					free++
				}
			}
			if free < bestFree {
				best, bestFree = i, free
			}
		}
		if best < 0 {
			return true
		}
		if bestFree == 0 {
			return false
		}
		for _, b := range partners[best] {
			j := b.Other(best)
			if matched[j] {
				continue
			}
			matched[best], matched[j] = true, true
			chosen = append(chosen, b)
			if solve() {
				return true
			}
			chosen = chosen[:len(chosen)-1]
			matched[best], matched[j] = false, false
		}
		return false
	}

	if !solve() {
		return fmt.Errorf("%w: no perfect matching", ErrKekulize)
	}
	for _, b := range chosen {
		b.Order = BondDouble
	}
	return nil
}

// needsDoubleBond reports whether aromatic atom i is one valence unit short
// with all of its aromatic bonds counted as single.
func (m *Molecule) needsDoubleBond(i int) bool {
	a := m.Atoms[i]
	vals := allowedValences(a.Number, a.Charge)
	if len(vals) == 0 {
		return false
	}
	used := 0
	for _, b := range m.BondsOf(i) {
		if b.Aromatic {
			used++
		} else {
			used += int(b.Order)
		}
	}
	used += a.ImplicitH + a.ExplicitH
	for _, v := range vals {
		if v >= used {
			return v-used == 1
		}
	}
	return false
}
