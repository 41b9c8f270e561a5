package chem

import (
	"fmt"
	"sort"
	"strings"
)

// BondOrder is the Kekulé order of a bond.
type BondOrder int

const (
	BondSingle    BondOrder = 1
	BondDouble    BondOrder = 2
	BondTriple    BondOrder = 3
	BondQuadruple BondOrder = 4
)

// Atom is a vertex of the molecular graph.
type Atom struct {
	Index    int
	Number   int // atomic number, 0 for "*"
	Isotope  int // 0 when unspecified
	Charge   int
	Aromatic bool
	// Bracket marks atoms written as [..]; they never receive implicit hydrogens.
	Bracket bool
	// ExplicitH is the hydrogen count written inside brackets ("[NH2+]" -> 2).
	ExplicitH int
	// ImplicitH is assigned during sanitization.
	ImplicitH int
	Class     int
	InRing    bool
}

// Element returns the periodic-table entry of the atom.
func (a *Atom) Element() *Element {
	if e := ElementByNumber(a.Number); e != nil {
		return e
	}
	return Wildcard
}

// Symbol returns the element symbol, lowercase for aromatic atoms.
func (a *Atom) Symbol() string {
	s := a.Element().Symbol
	if a.Aromatic {
		return strings.ToLower(s)
	}
	return s
}

// IsHydrogen reports whether the atom is an explicit hydrogen atom.
func (a *Atom) IsHydrogen() bool { return a.Number == 1 }

// Bond is an edge of the molecular graph.
type Bond struct {
	Index    int
	Begin    int
	End      int
	Order    BondOrder
	Aromatic bool
	InRing   bool
}

// Other returns the atom at the opposite end of the bond from i.
func (b *Bond) Other(i int) int {
	if b.Begin == i {
		return b.End
	}
	return b.Begin
}

// Molecule is an undirected molecular graph with hydrogens held as counts.
type Molecule struct {
	Atoms []*Atom
	Bonds []*Bond
	// Rings is a smallest set of smallest rings, each an ordered atom cycle.
	Rings [][]int

	adj [][]int // bond indices per atom
}

// NewMolecule returns an empty molecule.
func NewMolecule() *Molecule {
	return &Molecule{}
}

// NumAtoms returns the number of graph atoms (explicit hydrogens included).
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// AddAtom appends a copy of a and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	a.Index = len(m.Atoms)
	m.Atoms = append(m.Atoms, &a)
	m.adj = append(m.adj, nil)
	return a.Index
}

// AddBond connects atoms i and j. Self bonds and duplicate bonds are rejected.
func (m *Molecule) AddBond(i, j int, order BondOrder, aromatic bool) (int, error) {
	if i < 0 || j < 0 || i >= len(m.Atoms) || j >= len(m.Atoms) {
		return -1, fmt.Errorf("chem: bond %d-%d references a missing atom", i, j)
	}
	if i == j {
		return -1, fmt.Errorf("chem: atom %d bonded to itself", i)
	}
	if m.BondBetween(i, j) != nil {
		return -1, fmt.Errorf("chem: duplicate bond between atoms %d and %d", i, j)
	}
	b := &Bond{Index: len(m.Bonds), Begin: i, End: j, Order: order, Aromatic: aromatic}
	m.Bonds = append(m.Bonds, b)
	m.adj[i] = append(m.adj[i], b.Index)
	m.adj[j] = append(m.adj[j], b.Index)
	return b.Index, nil
}

// RemoveAtom deletes atom i and its bonds, renumbering the remaining atoms
// and bonds. Ring data is cleared.
func (m *Molecule) RemoveAtom(i int) {
	remap := make([]int, len(m.Atoms))
	atoms := m.Atoms[:0:0]
	for k, a := range m.Atoms {
		if k == i {
			remap[k] = -1
			continue
		}
		remap[k] = len(atoms)
		a.Index = len(atoms)
		atoms = append(atoms, a)
	}
	bonds := m.Bonds[:0:0]
	for _, b := range m.Bonds {
		if b.Begin == i || b.End == i {
			continue
		}
		b.Begin, b.End = remap[b.Begin], remap[b.End]
		b.Index = len(bonds)
		bonds = append(bonds, b)
	}
	m.Atoms, m.Bonds, m.Rings = atoms, bonds, nil
	m.adj = make([][]int, len(atoms))
	for _, b := range bonds {
		m.adj[b.Begin] = append(m.adj[b.Begin], b.Index)
		m.adj[b.End] = append(m.adj[b.End], b.Index)
	}
}

// BondBetween returns the bond joining i and j, or nil.
func (m *Molecule) BondBetween(i, j int) *Bond {
	if i < 0 || i >= len(m.adj) {
		return nil
	}
	for _, bi := range m.adj[i] {
		if m.Bonds[bi].Other(i) == j {
			return m.Bonds[bi]
		}
	}
	return nil
}

// BondsOf returns the bonds incident to atom i.
func (m *Molecule) BondsOf(i int) []*Bond {
	out := make([]*Bond, len(m.adj[i]))
	for k, bi := range m.adj[i] {
		out[k] = m.Bonds[bi]
	}
	return out
}

// Neighbors returns the indices of all atoms bonded to i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adj[i]))
	for k, bi := range m.adj[i] {
		out[k] = m.Bonds[bi].Other(i)
	}
	return out
}

// HeavyNeighbors returns the neighbours of i that are not explicit hydrogens.
func (m *Molecule) HeavyNeighbors(i int) []int {
	var out []int
	for _, bi := range m.adj[i] {
		j := m.Bonds[bi].Other(i)
		if !m.Atoms[j].IsHydrogen() {
			out = append(out, j)
		}
	}
	return out
}

// HeavyDegree is the number of non-hydrogen neighbours of i.
func (m *Molecule) HeavyDegree(i int) int {
	return len(m.HeavyNeighbors(i))
}

// TotalHs returns every hydrogen on atom i: implicit, bracket and explicit
// hydrogen neighbours.
func (m *Molecule) TotalHs(i int) int {
	a := m.Atoms[i]
	n := a.ImplicitH + a.ExplicitH
	for _, j := range m.Neighbors(i) {
		if m.Atoms[j].IsHydrogen() {
			n++
		}
	}
	return n
}

// TotalDegree is the number of connections including all hydrogens (SMARTS X).
func (m *Molecule) TotalDegree(i int) int {
	return m.HeavyDegree(i) + m.TotalHs(i)
}

// BondOrderSum sums the Kekulé orders of the bonds of i.
func (m *Molecule) BondOrderSum(i int) int {
	s := 0
	for _, bi := range m.adj[i] {
		s += int(m.Bonds[bi].Order)
	}
	return s
}

// Valence is the total valence of atom i (bond orders plus hydrogen counts).
func (m *Molecule) Valence(i int) int {
	a := m.Atoms[i]
	return m.BondOrderSum(i) + a.ImplicitH + a.ExplicitH
}

// HasAromaticNeighbor reports whether any neighbour of i is aromatic.
func (m *Molecule) HasAromaticNeighbor(i int) bool {
	for _, j := range m.Neighbors(i) {
		if m.Atoms[j].Aromatic {
			return true
		}
	}
	return false
}

// Fragments returns the connected components as sorted atom index lists.
func (m *Molecule) Fragments() [][]int {
	seen := make([]bool, len(m.Atoms))
	var frags [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, i)
			for _, j := range m.Neighbors(i) {
				if !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
		sort.Ints(comp)
		frags = append(frags, comp)
	}
	return frags
}
