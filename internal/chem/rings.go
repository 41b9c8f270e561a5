package chem

import "sort"

// PerceiveRings marks ring atoms and ring bonds and fills m.Rings with a
// smallest set of smallest rings.
func (m *Molecule) PerceiveRings() {
	for _, a := range m.Atoms {
		a.InRing = false
	}
	for _, b := range m.Bonds {
		b.InRing = false
	}

	bridges := m.bridges()
	for _, b := range m.Bonds {
		if !bridges[b.Index] {
			b.InRing = true
			m.Atoms[b.Begin].InRing = true
			m.Atoms[b.End].InRing = true
		}
	}
	m.Rings = m.smallestRings()
}

// bridges finds bonds whose removal disconnects the graph (Tarjan lowlink).
func (m *Molecule) bridges() []bool {
	n := len(m.Atoms)
	isBridge := make([]bool, len(m.Bonds))
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	type frame struct {
		atom, viaBond, next int
	}
	for root := 0; root < n; root++ {
		if disc[root] >= 0 {
			continue
		}
		disc[root], low[root] = timer, timer
		timer++
		stack := []frame{{atom: root, viaBond: -1}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(m.adj[top.atom]) {
				bi := m.adj[top.atom][top.next]
				top.next++
				if bi == top.viaBond {
					continue
				}
				j := m.Bonds[bi].Other(top.atom)
				if disc[j] < 0 {
					disc[j], low[j] = timer, timer
					timer++
					stack = append(stack, frame{atom: j, viaBond: bi})
				} else if disc[j] < low[top.atom] {
					low[top.atom] = disc[j]
				}
				continue
			}
			done := *top
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := stack[len(stack)-1].atom
				if low[done.atom] < low[parent] {
					low[parent] = low[done.atom]
				}
				if low[done.atom] > disc[parent] {
					isBridge[done.viaBond] = true
				}
			}
		}
	}
	return isBridge
}

// smallestRings collects, for every ring bond, the shortest cycle through it
// and keeps a linearly independent subset in order of size.
func (m *Molecule) smallestRings() [][]int {
	var candidates [][]int
	seen := map[string]bool{}
	for _, b := range m.Bonds {
		if !b.InRing {
			continue
		}
		path := m.shortestRingPath(b.Begin, b.End, b.Index)
		if path == nil {
			continue
		}
		key := ringKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, path)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) < len(candidates[j])
	})

	var basis [][]bool
	var rings [][]int
	for _, cyc := range candidates {
		vec := make([]bool, len(m.Bonds))
		for k := range cyc {
			b := m.BondBetween(cyc[k], cyc[(k+1)%len(cyc)])
			vec[b.Index] = true
		}
		if reduced, independent := reduce(vec, basis); independent {
			basis = append(basis, reduced)
			rings = append(rings, cyc)
		}
	}
	return rings
}

// shortestRingPath returns the atoms on the shortest path from `from` to `to`
// over ring bonds, excluding skipBond. The result starts at `from`.
func (m *Molecule) shortestRingPath(from, to, skipBond int) []int {
	prev := make([]int, len(m.Atoms))
	for i := range prev {
		prev[i] = -2
	}
	prev[from] = -1
	queue := []int{from}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if i == to {
			break
		}
		for _, bi := range m.adj[i] {
			b := m.Bonds[bi]
			if bi == skipBond || !b.InRing {
				continue
			}
			j := b.Other(i)
			if prev[j] != -2 {
				continue
			}
			prev[j] = i
			queue = append(queue, j)
		}
	}
	if prev[to] == -2 {
		return nil
	}
	var rev []int
	for k := to; k != -1; k = prev[k] {
		rev = append(rev, k)
	}
	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

// reduce performs Gaussian elimination of vec against basis over GF(2).
// basis rows are kept with distinct leading bits.
func reduce(vec []bool, basis [][]bool) ([]bool, bool) {
	v := append([]bool(nil), vec...)
	for _, row := range basis {
		lead := leadingBit(row)
		if lead >= 0 && v[lead] {
			for k := range v {
				v[k] = v[k] != row[k]
			}
		}
	}
	if leadingBit(v) < 0 {
		return nil, false
	}
	// eliminate the new lead from existing rows to keep leads distinct
	lead := leadingBit(v)
	for _, row := range basis {
		if row[lead] {
			for k := range row {
				row[k] = row[k] != v[k]
			}
		}
	}
	return v, true
}

func leadingBit(v []bool) int {
	for i, b := range v {
		if b {
			return i
		}
	}
	return -1
}

func ringKey(cycle []int) string {
	s := append([]int(nil), cycle...)
	sort.Ints(s)
	key := make([]byte, 0, len(s)*3)
	for _, i := range s {
		key = append(key, byte(i>>8), byte(i), ',')
	}
	return string(key)
}

// RingsContaining returns the indices into m.Rings of rings that contain atom i.
func (m *Molecule) RingsContaining(i int) []int {
	var out []int
	for r, ring := range m.Rings {
		for _, a := range ring {
			if a == i {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
