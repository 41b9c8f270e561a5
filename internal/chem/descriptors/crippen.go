package descriptors

import "github.com/turtacn/druglike/internal/chem"

// Wildman-Crippen atom-type contributions to logP (J. Chem. Inf. Comput.
// Sci. 1999, 39, 868-873).
var crippenLogP = map[string]float64{
	"C1": 0.1441, "C2": 0.0, "C3": -0.2035, "C4": -0.2051, "C5": -0.2783,
	"C6": 0.1551, "C7": 0.0017, "C8": 0.08452, "C9": -0.1444, "C10": -0.0516,
	"C11": 0.1193, "C12": -0.0967, "C13": -0.5443, "C14": 0.0, "C15": 0.245,
	"C16": 0.198, "C17": 0.0, "C18": 0.1581, "C19": 0.2955, "C20": 0.2713,
	"C21": 0.136, "C22": 0.4619, "C23": 0.5437, "C24": 0.1893, "C25": -0.8186,
	"C26": 0.264, "C27": 0.2148, "CS": 0.08129,

	"H1": 0.123, "H2": -0.2677, "H3": 0.2142, "H4": 0.298, "HS": 0.1125,

	"N1": -1.019, "N2": -0.7096, "N3": -1.027, "N4": -0.5188, "N5": 0.08387,
	"N6": 0.1836, "N7": -0.3187, "N8": -0.4458, "N9": 0.01508, "N10": -1.95,
	"N11": -0.3239, "N12": -1.119, "N13": -0.3396, "N14": 0.2887, "NS": -0.4806,

	"O1": 0.1552, "O2": -0.2893, "O3": -0.0684, "O4": -0.4195, "O5": 0.0335,
	"O6": -0.3339, "O7": -1.189, "O8": 0.1788, "O9": -0.1526, "O10": 0.1129,
	"O11": 0.4833, "O12": -1.326, "OS": -0.1188,

	"F": 0.4202, "Cl": 0.6895, "Br": 0.8456, "I": 0.8857, "Hal": -2.996,
	"P": 0.8612, "S1": 0.6482, "S2": -0.0024, "S3": 0.6237,
}

// AtomContribution is the Crippen typing of one heavy atom and of the
// hydrogens it carries.
type AtomContribution struct {
	Atom  int
	Type  string
	HType string
	Hs    int
	LogP  float64 // heavy atom plus its hydrogens
}

// MolLogP returns the Wildman-Crippen octanol/water partition coefficient.
func MolLogP(m *chem.Molecule) float64 {
	total := 0.0
	for _, c := range CrippenContributions(m) {
		total += c.LogP
	}
	return total
}

// CrippenContributions types every atom. Explicit hydrogen atoms attached to
// a heavy atom are accounted on that atom and do not appear separately.
func CrippenContributions(m *chem.Molecule) []AtomContribution {
	out := make([]AtomContribution, 0, len(m.Atoms))
	for _, a := range m.Atoms {
		if a.IsHydrogen() && len(m.HeavyNeighbors(a.Index)) > 0 {
			continue
		}
		env := newEnv(m, a.Index)
		c := AtomContribution{Atom: a.Index, Hs: env.h}
		if a.IsHydrogen() {
			// isolated hydrogen or H2
			c.Type = "HS"
			if len(m.Neighbors(a.Index)) > 0 {
				c.Type = "H1"
			}
		} else {
			c.Type = env.heavyType()
		}
		c.LogP = crippenLogP[c.Type]
		if env.h > 0 {
			c.HType = env.hydrogenType()
			c.LogP += float64(env.h) * crippenLogP[c.HType]
		}
		out = append(out, c)
	}
	return out
}

type neighbor struct {
	atom *chem.Atom
	bond *chem.Bond
}

// plain reports an unspecified SMARTS bond: single or aromatic.
func (n neighbor) plain() bool  { return n.bond.Aromatic || n.bond.Order == chem.BondSingle }
func (n neighbor) single() bool { return !n.bond.Aromatic && n.bond.Order == chem.BondSingle }
func (n neighbor) double() bool { return !n.bond.Aromatic && n.bond.Order == chem.BondDouble }
func (n neighbor) triple() bool { return !n.bond.Aromatic && n.bond.Order == chem.BondTriple }
func (n neighbor) arom() bool   { return n.bond.Aromatic }

func (n neighbor) is(z int) bool         { return n.atom.Number == z }
func (n neighbor) aliphatic() bool       { return !n.atom.Aromatic }
func (n neighbor) aliphaticCarbon() bool { return n.is(6) && !n.atom.Aromatic }
func (n neighbor) aromaticCarbon() bool  { return n.is(6) && n.atom.Aromatic }

// hetero matches the SMARTS list [N,O,P,S,F,Cl,Br,I] (aliphatic forms).
func (n neighbor) hetero() bool {
	if n.atom.Aromatic {
		return false
	}
	switch n.atom.Number {
	case 7, 8, 15, 16, 9, 17, 35, 53:
		return true
	}
	return false
}

type env struct {
	m    *chem.Molecule
	a    *chem.Atom
	nbrs []neighbor // heavy neighbours only
	h    int
	x    int
}

func newEnv(m *chem.Molecule, i int) *env {
	e := &env{m: m, a: m.Atoms[i], h: m.TotalHs(i)}
	for _, b := range m.BondsOf(i) {
		other := m.Atoms[b.Other(i)]
		if other.IsHydrogen() {
			continue
		}
		e.nbrs = append(e.nbrs, neighbor{atom: other, bond: b})
	}
	e.x = len(e.nbrs) + e.h
	return e
}

func (e *env) count(pred func(neighbor) bool) int {
	n := 0
	for _, nb := range e.nbrs {
		if pred(nb) {
			n++
		}
	}
	return n
}

func (e *env) any(pred func(neighbor) bool) bool { return e.count(pred) > 0 }

// pair reports two distinct neighbours matching p and q respectively.
func (e *env) pair(p, q func(neighbor) bool) bool {
	for i, a := range e.nbrs {
		if !p(a) {
			continue
		}
		for j, b := range e.nbrs {
			if i != j && q(b) {
				return true
			}
		}
	}
	return false
}

// triple reports three distinct neighbours matching p, q and r.
func (e *env) trio(p, q, r func(neighbor) bool) bool {
	n := len(e.nbrs)
	for i := 0; i < n; i++ {
		if !p(e.nbrs[i]) {
			continue
		}
		for j := 0; j < n; j++ {
			if j == i || !q(e.nbrs[j]) {
				continue
			}
			for k := 0; k < n; k++ {
				if k != i && k != j && r(e.nbrs[k]) {
					return true
				}
			}
		}
	}
	return false
}

func and(ps ...func(neighbor) bool) func(neighbor) bool {
	return func(n neighbor) bool {
		for _, p := range ps {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

func (e *env) heavyType() string {
	switch e.a.Number {
	case 6:
		if e.a.Aromatic {
			return e.aromaticCarbonType()
		}
		return e.aliphaticCarbonType()
	case 7:
		return e.nitrogenType()
	case 8:
		return e.oxygenType()
	case 9, 17, 35, 53:
		return e.halogenType()
	case 15:
		return "P"
	case 16:
		switch {
		case e.a.Aromatic:
			return "S3"
		case e.a.Charge == 0:
			return "S1"
		default:
			return "S2"
		}
	}
	return ""
}

func (e *env) aliphaticCarbonType() string {
	singleAliphC := and(neighbor.single, neighbor.aliphaticCarbon)
	plainAliphHeavy := and(neighbor.plain, neighbor.aliphatic)
	plainHetero := and(neighbor.plain, neighbor.hetero)
	plainArom := func(n neighbor) bool { return n.plain() && n.atom.Aromatic }
	doubleAliphC := and(neighbor.double, neighbor.aliphaticCarbon)
	allAliphatic := e.count(neighbor.aliphatic) == len(e.nbrs)
	h := e.h

	// C1
	if h == 4 ||
		h == 3 && e.any(singleAliphC) ||
		h == 2 && e.count(singleAliphC) >= 2 {
		return "C1"
	}
	// C2
	if h == 1 && e.count(singleAliphC) >= 3 || h == 0 && e.count(singleAliphC) >= 4 {
		return "C2"
	}
	// C3
	if h == 3 && e.any(plainHetero) ||
		h == 2 && e.x == 4 && allAliphatic && e.pair(plainHetero, plainAliphHeavy) {
		return "C3"
	}
	// C4
	if (h == 1 || h == 0) && e.x == 4 && allAliphatic && e.pair(plainHetero, plainAliphHeavy) {
		return "C4"
	}
	// C5
	if e.any(func(n neighbor) bool { return n.double() && n.aliphatic() && !n.is(6) }) {
		return "C5"
	}
	// C6
	if h == 2 && e.any(doubleAliphC) ||
		h == 1 && e.pair(doubleAliphC, plainAliphHeavy) ||
		h == 0 && e.trio(doubleAliphC, plainAliphHeavy, plainAliphHeavy) ||
		e.count(doubleAliphC) >= 2 {
		return "C6"
	}
	// C7
	if e.x == 2 && e.any(and(neighbor.triple, neighbor.aliphatic)) {
		return "C7"
	}
	// C8 - C12
	plainAromC := and(neighbor.plain, neighbor.aromaticCarbon)
	switch {
	case h == 3 && e.any(plainAromC):
		return "C8"
	case h == 3 && e.any(plainArom):
		return "C9"
	case h == 2 && e.x == 4 && e.any(plainArom):
		return "C10"
	case h == 1 && e.x == 4 && e.any(plainArom):
		return "C11"
	case h == 0 && e.x == 4 && e.any(plainArom):
		return "C12"
	}
	// C26
	if e.trio(doubleAliphC, plainArom, plainAliphHeavy) ||
		e.trio(doubleAliphC, plainAromC, plainArom) ||
		h == 1 && e.pair(doubleAliphC, plainArom) ||
		e.any(and(neighbor.double, neighbor.aromaticCarbon)) {
		return "C26"
	}
	// C27
	if e.x == 4 && e.any(func(n neighbor) bool { return n.plain() && n.aliphatic() && !commonElement(n.atom.Number) }) {
		return "C27"
	}
	return "CS"
}

// commonElement matches C, N, O, P, S, F, Cl, Br, I.
func commonElement(z int) bool {
	switch z {
	case 6, 7, 8, 15, 16, 9, 17, 35, 53:
		return true
	}
	return false
}

func (e *env) aromaticCarbonType() string {
	h := e.h
	arom := e.count(neighbor.arom)

	// C13: bonded to an aliphatic atom outside C, N, O, S and the halogens
	if h == 0 && e.any(func(n neighbor) bool {
		return n.single() && n.aliphatic() && (n.is(15) || !commonElement(n.atom.Number))
	}) {
		return "C13"
	}
	switch {
	case e.any(and(neighbor.plain, func(n neighbor) bool { return n.is(9) })):
		return "C14"
	case e.any(and(neighbor.plain, func(n neighbor) bool { return n.is(17) })):
		return "C15"
	case e.any(and(neighbor.plain, func(n neighbor) bool { return n.is(35) })):
		return "C16"
	case e.any(and(neighbor.plain, func(n neighbor) bool { return n.is(53) })):
		return "C17"
	case h == 1:
		return "C18"
	}
	if arom >= 2 {
		switch {
		case arom >= 3:
			return "C19"
		case e.any(func(n neighbor) bool { return n.single() && n.atom.Aromatic }):
			return "C20"
		case e.any(and(neighbor.single, neighbor.aliphaticCarbon)):
			return "C21"
		case e.any(func(n neighbor) bool { return n.single() && n.aliphatic() && n.is(7) }):
			return "C22"
		case e.any(func(n neighbor) bool { return n.single() && n.aliphatic() && n.is(8) }):
			return "C23"
		case e.any(func(n neighbor) bool { return n.single() && n.aliphatic() && n.is(16) }):
			return "C24"
		case e.any(func(n neighbor) bool {
			return n.double() && n.aliphatic() && (n.is(6) || n.is(7) || n.is(8))
		}):
			return "C25"
		}
	}
	return "CS"
}

func (e *env) nitrogenType() string {
	h, q := e.h, e.a.Charge
	plainAliphHeavy := and(neighbor.plain, neighbor.aliphatic)
	plainArom := func(n neighbor) bool { return n.plain() && n.atom.Aromatic }
	plainHeavy := neighbor.plain
	doubleHeavy := neighbor.double

	if e.a.Aromatic {
		switch {
		case q == 0:
			return "N11"
		case q > 0:
			return "N12"
		}
		return "NS"
	}

	if q == 0 {
		switch {
		case h == 2 && e.any(plainAliphHeavy):
			return "N1"
		case h == 1 && e.count(plainAliphHeavy) >= 2:
			return "N2"
		case h == 2 && e.any(plainArom):
			return "N3"
		case h == 1 && e.pair(plainArom, plainHeavy):
			return "N4"
		case h == 1 && e.any(doubleHeavy):
			return "N5"
		case e.pair(doubleHeavy, plainHeavy):
			return "N6"
		case e.count(plainAliphHeavy) >= 3:
			return "N7"
		case e.trio(plainArom, plainHeavy, plainAliphHeavy) || e.count(plainArom) >= 3:
			return "N8"
		case e.any(and(neighbor.triple, neighbor.aliphatic)):
			return "N9"
		}
		return "NS"
	}

	if q > 0 && h >= 1 && h <= 3 {
		return "N10"
	}
	if q > 0 && h == 0 {
		doubleAliph := and(neighbor.double, neighbor.aliphatic)
		switch {
		case e.count(plainAliphHeavy) >= 4,
			e.trio(doubleAliph, plainAliphHeavy, plainHeavy),
			e.pair(and(neighbor.double, func(n neighbor) bool { return n.is(6) }),
				and(neighbor.double, func(n neighbor) bool { return n.is(7) })):
			return "N13"
		}
	}
	if q > 0 && e.any(and(neighbor.triple, neighbor.aliphatic)) {
		return "N14"
	}
	if q < 0 {
		return "N14"
	}
	if q > 0 && e.pair(
		func(n neighbor) bool { return n.double() && n.is(7) && n.atom.Charge < 0 },
		func(n neighbor) bool { return n.double() && n.is(7) && !n.atom.Aromatic },
	) {
		return "N14"
	}
	return "NS"
}

func (e *env) oxygenType() string {
	a := e.a
	if a.Aromatic {
		return "O1"
	}
	if e.h == 1 || e.h == 2 {
		return "O2"
	}
	plainAliphHeavy := and(neighbor.plain, neighbor.aliphatic)
	plainArom := func(n neighbor) bool { return n.plain() && n.atom.Aromatic }
	if e.count(plainAliphHeavy) >= 2 {
		return "O3"
	}
	if e.pair(plainArom, plainAliphHeavy) || e.count(plainArom) >= 2 {
		return "O4"
	}
	if e.any(func(n neighbor) bool { return n.double() && (n.is(7) || n.is(8)) }) {
		return "O5"
	}
	x1Anion := a.Charge < 0 && e.x == 1
	if x1Anion && e.any(func(n neighbor) bool { return n.is(7) }) {
		return "O5"
	}
	if x1Anion && e.any(func(n neighbor) bool { return n.is(16) }) {
		return "O6"
	}
	if a.Charge == 0 && e.any(func(n neighbor) bool { return n.double() && n.is(16) && n.atom.Charge == 0 }) {
		return "O6"
	}
	if a.Charge == -1 && e.any(func(n neighbor) bool {
		return n.single() && n.aliphaticCarbon() && e.partnerHasDoubleO(n.atom.Index)
	}) {
		return "O12"
	}
	if x1Anion {
		return "O7"
	}
	if e.any(func(n neighbor) bool { return n.double() && n.aromaticCarbon() }) {
		return "O8"
	}

	// carbonyl classes by the substituents of the carbonyl carbon
	for _, nb := range e.nbrs {
		if !nb.double() || !nb.aliphaticCarbon() {
			continue
		}
		c := newEnv(e.m, nb.atom.Index)
		var subs []neighbor
		for _, s := range c.nbrs {
			if s.atom.Index != a.Index && s.plain() {
				subs = append(subs, s)
			}
		}
		sub := &env{m: e.m, a: nb.atom, nbrs: subs}
		aliphC := neighbor.aliphaticCarbon
		aliphHeavy := neighbor.aliphatic
		isAromatic := func(n neighbor) bool { return n.atom.Aromatic }
		anyC := func(n neighbor) bool { return n.is(6) }
		aromC := neighbor.aromaticCarbon
		nonC := func(n neighbor) bool { return !n.is(6) }
		otherDoubleO := 0
		for _, s := range c.nbrs {
			if s.atom.Index != a.Index && s.double() && s.is(8) {
				otherDoubleO++
			}
		}

		switch {
		case c.h == 1 && sub.any(aliphC),
			sub.pair(aliphC, aliphHeavy),
			c.h == 1 && sub.any(and(neighbor.aliphatic, func(n neighbor) bool { return n.is(7) })),
			c.h == 1 && sub.any(and(neighbor.aliphatic, func(n neighbor) bool { return n.is(8) })),
			c.h == 2,
			c.x == 2 && otherDoubleO > 0:
			return "O9"
		case c.h == 1 && sub.any(aromC),
			sub.pair(anyC, isAromatic),
			sub.pair(aromC, aliphHeavy):
			return "O10"
		case sub.pair(nonC, nonC):
			return "O11"
		}
	}
	return "OS"
}

// partnerHasDoubleO reports whether atom i carries a double bond to oxygen.
func (e *env) partnerHasDoubleO(i int) bool {
	for _, b := range e.m.BondsOf(i) {
		if !b.Aromatic && b.Order == chem.BondDouble && e.m.Atoms[b.Other(i)].Number == 8 {
			return true
		}
	}
	return false
}

func (e *env) halogenType() string {
	q := e.a.Charge
	switch {
	case q < 0, q > 0 && e.a.Number == 53:
		return "Hal"
	case q > 0:
		return ""
	}
	switch e.a.Number {
	case 9:
		return "F"
	case 17:
		return "Cl"
	case 35:
		return "Br"
	}
	return "I"
}

// hydrogenType classifies the hydrogens carried by the environment's atom.
func (e *env) hydrogenType() string {
	switch e.a.Number {
	case 6, 1:
		return "H1"
	case 7:
		return "H3"
	case 8:
	default:
		return "H2"
	}

	// hydroxyl / water hydrogens
	if e.h >= 2 {
		// the other hydrogen is a neighbour outside C, N, O, S
		return "H2"
	}
	for _, nb := range e.nbrs {
		switch {
		case nb.is(6) && !nb.atom.Aromatic && newEnv(e.m, nb.atom.Index).x == 4:
			return "H2"
		case nb.aromaticCarbon():
			return "H2"
		case !nb.is(6) && !nb.is(7) && !nb.is(8) && !nb.is(16):
			return "H2"
		}
	}
	for _, nb := range e.nbrs {
		if nb.is(7) {
			return "H3"
		}
	}
	for _, nb := range e.nbrs {
		switch {
		case nb.aliphaticCarbon() && e.hasDoubleTo(nb.atom.Index, 6, 7, 8, 16):
			return "H4"
		case nb.is(8), nb.is(16):
			return "H4"
		}
	}
	return "HS"
}

// hasDoubleTo reports whether atom i has a non-aromatic double bond to any
// of the given elements.
func (e *env) hasDoubleTo(i int, elements ...int) bool {
	for _, b := range e.m.BondsOf(i) {
		if b.Aromatic || b.Order != chem.BondDouble {
			continue
		}
		z := e.m.Atoms[b.Other(i)].Number
		for _, want := range elements {
			if z == want {
				return true
			}
		}
	}
	return false
}
