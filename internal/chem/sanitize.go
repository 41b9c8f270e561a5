package chem

import "fmt"

// ValenceError reports an atom whose total valence exceeds every valence its
// element allows.
type ValenceError struct {
	Atom    int
	Symbol  string
	Charge  int
	Valence int
	Allowed []int
}

func (e *ValenceError) Error() string {
	return fmt.Sprintf("chem: explicit valence %d for atom %d (%s, charge %d) exceeds allowed %v",
		e.Valence, e.Atom, e.Symbol, e.Charge, e.Allowed)
}

// Sanitize completes a freshly parsed graph: plain explicit hydrogens are
// folded into their neighbours, implicit hydrogens are assigned, aromatic
// systems are kekulized, valences are checked and ring and aromaticity
// flags are perceived from the Kekulé structure.
func Sanitize(m *Molecule) error {
	m.FoldHydrogens()
	m.assignAromaticHydrogens()
	if err := m.Kekulize(); err != nil {
		return err
	}
	m.assignImplicitHydrogens()
	if err := m.CheckValences(); err != nil {
		return err
	}
	m.PerceiveRings()
	m.PerceiveAromaticity()
	return nil
}

// FoldHydrogens removes explicit hydrogen atoms that carry no isotope, charge
// or class and have exactly one heavy neighbour, adding them to that
// neighbour's bracket hydrogen count.
func (m *Molecule) FoldHydrogens() {
	for i := len(m.Atoms) - 1; i >= 0; i-- {
		a := m.Atoms[i]
		if !a.IsHydrogen() || a.Isotope != 0 || a.Charge != 0 || a.Class != 0 || a.ExplicitH != 0 {
			continue
		}
		nbrs := m.Neighbors(i)
		if len(nbrs) != 1 || m.Atoms[nbrs[0]].IsHydrogen() {
			continue
		}
		if b := m.BondBetween(i, nbrs[0]); b.Order != BondSingle || b.Aromatic {
			continue
		}
		m.Atoms[nbrs[0]].ExplicitH++
		m.RemoveAtom(i)
	}
}

// assignAromaticHydrogens gives unbracketed aromatic carbons the hydrogen
// they need to reach valence four with one ring double bond. Other
// unbracketed aromatic atoms carry none.
func (m *Molecule) assignAromaticHydrogens() {
	for _, a := range m.Atoms {
		if !a.Aromatic || a.Bracket {
			continue
		}
		a.ImplicitH = 0
		if a.Number != 6 {
			continue
		}
		used := a.ExplicitH
		for _, b := range m.BondsOf(a.Index) {
			if b.Aromatic {
				used++
			} else {
				used += int(b.Order)
			}
		}
		if h := 3 - used; h > 0 {
			a.ImplicitH = h
		}
	}
}

// assignImplicitHydrogens fills unbracketed aliphatic atoms up to their
// smallest default valence not below the current bond order sum.
func (m *Molecule) assignImplicitHydrogens() {
	for _, a := range m.Atoms {
		if a.Aromatic || a.Bracket {
			continue
		}
		vals := allowedValences(a.Number, a.Charge)
		if len(vals) == 0 {
			a.ImplicitH = 0
			continue
		}
		used := m.BondOrderSum(a.Index) + a.ExplicitH
		a.ImplicitH = 0
		for _, v := range vals {
			if v >= used {
				a.ImplicitH = v - used
				break
			}
		}
	}
}

// CheckValences rejects atoms whose valence exceeds the largest allowed one.
func (m *Molecule) CheckValences() error {
	for _, a := range m.Atoms {
		vals := allowedValences(a.Number, a.Charge)
		if len(vals) == 0 {
			continue
		}
		v := m.Valence(a.Index)
		if v > vals[len(vals)-1] {
			return &ValenceError{Atom: a.Index, Symbol: a.Symbol(), Charge: a.Charge, Valence: v, Allowed: vals}
		}
	}
	return nil
}
