package descriptors

import "github.com/turtacn/druglike/internal/chem"

// NumHDonors counts Lipinski hydrogen-bond donors: N-H with valence 3,
// protonated N-H with valence 4, neutral O-H and S-H, and neutral aromatic
// n-H.
func NumHDonors(m *chem.Molecule) int {
	n := 0
	for _, a := range m.Atoms {
		if isDonor(m, a) {
			n++
		}
	}
	return n
}

// NumHAcceptors counts Lipinski hydrogen-bond acceptors.
func NumHAcceptors(m *chem.Molecule) int {
	n := 0
	for _, a := range m.Atoms {
		if isAcceptor(m, a) {
			n++
		}
	}
	return n
}

func isDonor(m *chem.Molecule, a *chem.Atom) bool {
	hs := m.TotalHs(a.Index)
	v := m.Valence(a.Index)
	switch a.Number {
	case 7:
		if a.Aromatic {
			return hs == 1 && a.Charge == 0
		}
		return hs > 0 && (v == 3 || a.Charge == 1 && v == 4)
	case 8, 16:
		return !a.Aromatic && hs == 1 && a.Charge == 0
	}
	return false
}

func isAcceptor(m *chem.Molecule, a *chem.Atom) bool {
	i := a.Index
	hs := m.TotalHs(i)
	v := m.Valence(i)
	switch a.Number {
	case 9:
		return true
	case 8, 16:
		if a.Aromatic {
			return a.Charge == 0
		}
		if a.Charge < 0 {
			return true
		}
		if v != 2 {
			return false
		}
		if hs == 0 {
			return true
		}
		if hs != 1 {
			return false
		}
		for _, b := range m.BondsOf(i) {
			j := b.Other(i)
			if b.Aromatic || b.Order != chem.BondSingle || m.Atoms[j].IsHydrogen() {
				continue
			}
			if !hasDoubleToHetero(m, j, false) {
				return true
			}
		}
		return false
	case 7:
		if a.Aromatic {
			return hs == 0 && a.Charge == 0
		}
		if v != 3 {
			return false
		}
		for _, b := range m.BondsOf(i) {
			if b.Aromatic || b.Order != chem.BondSingle {
				continue
			}
			if hasDoubleToHetero(m, b.Other(i), true) {
				return false
			}
		}
		return true
	}
	return false
}

// hasDoubleToHetero reports a non-aromatic double bond from atom i to an
// aliphatic O, N, P or S. With acyclicOnly, ring bonds are ignored.
func hasDoubleToHetero(m *chem.Molecule, i int, acyclicOnly bool) bool {
	for _, b := range m.BondsOf(i) {
		if b.Aromatic || b.Order != chem.BondDouble || acyclicOnly && b.InRing {
			continue
		}
		o := m.Atoms[b.Other(i)]
		if o.Aromatic {
			continue
		}
		switch o.Number {
		case 7, 8, 15, 16:
			return true
		}
	}
	return false
}
