package chem

// PerceiveAromaticity recomputes aromatic flags from the Kekulé structure
// with a Hückel 4n+2 rule, first per ring, then over pairs of fused rings and
// finally over whole fused ring systems. Rings must have been perceived.
func (m *Molecule) PerceiveAromaticity() {
	for _, a := range m.Atoms {
		a.Aromatic = false
	}
	for _, b := range m.Bonds {
		b.Aromatic = false
	}
	if len(m.Rings) == 0 {
		return
	}

	aromatic := make([]bool, len(m.Rings))
	for r, ring := range m.Rings {
		aromatic[r] = m.huckel(ring)
	}

	for r1 := range m.Rings {
		for r2 := r1 + 1; r2 < len(m.Rings); r2++ {
			if aromatic[r1] && aromatic[r2] {
				continue
			}
			if !m.ringsShareBond(r1, r2) {
				continue
			}
			if m.huckel(unionAtoms(m.Rings[r1], m.Rings[r2])) {
				aromatic[r1], aromatic[r2] = true, true
			}
		}
	}

	for _, system := range m.fusedSystems() {
		allDone := true
		var atoms []int
		for _, r := range system {
			if !aromatic[r] {
				allDone = false
			}
			atoms = unionAtoms(atoms, m.Rings[r])
		}
		if allDone || len(system) < 3 {
			continue
		}
		if m.huckel(atoms) {
			for _, r := range system {
				aromatic[r] = true
			}
		}
	}

	for r, ring := range m.Rings {
		if !aromatic[r] {
			continue
		}
		for k, i := range ring {
			m.Atoms[i].Aromatic = true
			if b := m.BondBetween(i, ring[(k+1)%len(ring)]); b != nil {
				b.Aromatic = true
			}
		}
	}
}

// huckel reports whether the atom set is a closed pi system with 4n+2 electrons.
func (m *Molecule) huckel(atoms []int) bool {
	in := make(map[int]bool, len(atoms))
	for _, i := range atoms {
		in[i] = true
	}
	electrons := 0
	for _, i := range atoms {
		e := m.piElectrons(i, in)
		if e < 0 {
			return false
		}
		electrons += e
	}
	return electrons >= 2 && (electrons-2)%4 == 0
}

// piElectrons returns the pi electrons atom i donates to the ring set, or
// -1 when the atom cannot be part of an aromatic system.
func (m *Molecule) piElectrons(i int, set map[int]bool) int {
	a := m.Atoms[i]
	inDouble, exoPartner := false, -1
	for _, b := range m.BondsOf(i) {
		switch b.Order {
		case BondSingle:
		case BondDouble:
			if set[b.Other(i)] {
				inDouble = true
			} else {
				exoPartner = b.Other(i)
			}
		default:
			return -1
		}
	}
	if inDouble {
		return 1
	}
	if exoPartner >= 0 {
		// exocyclic C=O, C=N, C=S leave an empty p orbital
		switch m.Atoms[exoPartner].Number {
		case 7, 8, 16:
			if a.Number == 6 {
				return 0
			}
		}
		return -1
	}

	connections := m.TotalDegree(i)
	switch a.Number {
	case 7, 15, 33:
		if a.Charge == 0 && connections == 3 {
			return 2
		}
		if a.Charge == -1 && connections == 2 {
			return 2
		}
	case 8, 16, 34, 52:
		if a.Charge == 0 && connections == 2 {
			return 2
		}
	case 6:
		if a.Charge == -1 && connections == 3 {
			return 2
		}
		if a.Charge == 1 && connections == 3 {
			return 0
		}
	case 5:
		if a.Charge == 0 && connections == 3 {
			return 0
		}
	case 0:
		return 1
	}
	return -1
}

func (m *Molecule) ringsShareBond(r1, r2 int) bool {
	shared := 0
	in := make(map[int]bool, len(m.Rings[r1]))
	for _, i := range m.Rings[r1] {
		in[i] = true
	}
	for _, i := range m.Rings[r2] {
		if in[i] {
			shared++
		}
	}
	return shared >= 2
}

// fusedSystems groups ring indices connected through shared bonds.
func (m *Molecule) fusedSystems() [][]int {
	parent := make([]int, len(m.Rings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for r1 := range m.Rings {
		for r2 := r1 + 1; r2 < len(m.Rings); r2++ {
			if m.ringsShareBond(r1, r2) {
				parent[find(r1)] = find(r2)
			}
		}
	}
	groups := map[int][]int{}
	var order []int
	for r := range m.Rings {
		root := find(r)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], r)
	}
	out := make([][]int, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}

func unionAtoms(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, s := range [][]int{a, b} {
		for _, i := range s {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	return out
}
