// Package chem holds the molecular graph used by the SMILES parser, the
// descriptor calculators and the depiction renderer: atoms, bonds, rings,
// hydrogen assignment, kekulization and aromaticity perception.
package chem

// Element describes one entry of the periodic table.
type Element struct {
	Number int
	Symbol string
	// Weight is the standard (average) atomic weight in daltons.
	Weight float64
	// Valences lists the allowed total valences of the neutral element in
	// ascending order. nil means the element is not valence-checked.
	Valences []int
}

// MaxValence returns the largest allowed valence, or -1 when unchecked.
func (e *Element) MaxValence() int {
	if len(e.Valences) == 0 {
		return -1
	}
	return e.Valences[len(e.Valences)-1]
}

// Wildcard is the "*" atom of SMILES.
var Wildcard = &Element{Number: 0, Symbol: "*"}

// HydrogenWeight is the average atomic weight of hydrogen.
const HydrogenWeight = 1.008

var periodicTable = []*Element{
	Wildcard,
	{1, "H", 1.008, []int{1}},
	{2, "He", 4.003, []int{0}},
	{3, "Li", 6.941, []int{1}},
	{4, "Be", 9.012, []int{2}},
	{5, "B", 10.812, []int{3}},
	{6, "C", 12.011, []int{4}},
	{7, "N", 14.007, []int{3}},
	{8, "O", 15.999, []int{2}},
	{9, "F", 18.998, []int{1}},
	{10, "Ne", 20.180, []int{0}},
	{11, "Na", 22.990, []int{1}},
	{12, "Mg", 24.305, []int{2}},
	{13, "Al", 26.982, []int{3}},
	{14, "Si", 28.086, []int{4}},
	{15, "P", 30.974, []int{3, 5}},
	{16, "S", 32.065, []int{2, 4, 6}},
	{17, "Cl", 35.453, []int{1}},
	{18, "Ar", 39.948, []int{0}},
	{19, "K", 39.098, []int{1}},
	{20, "Ca", 40.078, []int{2}},
	{21, "Sc", 44.956, nil},
	{22, "Ti", 47.867, nil},
	{23, "V", 50.942, nil},
	{24, "Cr", 51.996, nil},
	{25, "Mn", 54.938, nil},
	{26, "Fe", 55.845, nil},
	{27, "Co", 58.933, nil},
	{28, "Ni", 58.693, nil},
	{29, "Cu", 63.546, nil},
	{30, "Zn", 65.390, nil},
	{31, "Ga", 69.723, nil},
	{32, "Ge", 72.610, []int{4}},
	{33, "As", 74.922, []int{3, 5}},
	{34, "Se", 78.960, []int{2, 4, 6}},
	{35, "Br", 79.904, []int{1}},
	{36, "Kr", 83.800, []int{0}},
	{37, "Rb", 85.468, []int{1}},
	{38, "Sr", 87.620, []int{2}},
	{39, "Y", 88.906, nil},
	{40, "Zr", 91.224, nil},
	{41, "Nb", 92.906, nil},
	{42, "Mo", 95.940, nil},
	{43, "Tc", 98.000, nil},
	{44, "Ru", 101.070, nil},
	{45, "Rh", 102.906, nil},
	{46, "Pd", 106.420, nil},
	{47, "Ag", 107.868, nil},
	{48, "Cd", 112.411, nil},
	{49, "In", 114.818, nil},
	{50, "Sn", 118.710, nil},
	{51, "Sb", 121.760, nil},
	{52, "Te", 127.600, []int{2, 4, 6}},
	{53, "I", 126.904, []int{1, 3, 5}},
	{54, "Xe", 131.290, []int{0}},
	{55, "Cs", 132.905, []int{1}},
	{56, "Ba", 137.328, []int{2}},
	{57, "La", 138.906, nil},
	{58, "Ce", 140.116, nil},
	{59, "Pr", 140.908, nil},
	{60, "Nd", 144.240, nil},
	{61, "Pm", 145.000, nil},
	{62, "Sm", 150.360, nil},
	{63, "Eu", 151.964, nil},
	{64, "Gd", 157.250, nil},
	{65, "Tb", 158.925, nil},
	{66, "Dy", 162.500, nil},
	{67, "Ho", 164.930, nil},
	{68, "Er", 167.260, nil},
	{69, "Tm", 168.934, nil},
	{70, "Yb", 173.040, nil},
	{71, "Lu", 174.967, nil},
	{72, "Hf", 178.490, nil},
	{73, "Ta", 180.948, nil},
	{74, "W", 183.840, nil},
	{75, "Re", 186.207, nil},
	{76, "Os", 190.230, nil},
	{77, "Ir", 192.217, nil},
	{78, "Pt", 195.078, nil},
	{79, "Au", 196.967, nil},
	{80, "Hg", 200.590, nil},
	{81, "Tl", 204.383, nil},
	{82, "Pb", 207.200, nil},
	{83, "Bi", 208.980, nil},
	{84, "Po", 209.000, nil},
	{85, "At", 210.000, nil},
	{86, "Rn", 222.000, []int{0}},
}

var bySymbol = func() map[string]*Element {
	m := make(map[string]*Element, len(periodicTable))
	for _, e := range periodicTable {
		m[e.Symbol] = e
	}
	return m
}()

// ElementBySymbol looks up an element by its case-sensitive symbol ("Cl").
func ElementBySymbol(symbol string) (*Element, bool) {
	e, ok := bySymbol[symbol]
	return e, ok
}

// ElementByNumber returns the element with atomic number n, or nil.
func ElementByNumber(n int) *Element {
	if n < 0 || n >= len(periodicTable) {
		return nil
	}
	return periodicTable[n]
}

// aromaticSymbols are the lowercase element symbols allowed for aromatic atoms.
var aromaticSymbols = map[string]int{
	"b": 5, "c": 6, "n": 7, "o": 8, "p": 15, "s": 16, "se": 34, "as": 33, "te": 52,
}

// AromaticElement resolves a lowercase aromatic symbol ("c", "se").
func AromaticElement(symbol string) (*Element, bool) {
	n, ok := aromaticSymbols[symbol]
	if !ok {
		return nil, false
	}
	return periodicTable[n], true
}

// allowedValences returns the valence list that applies to an atom with the
// given atomic number and formal charge, using the isoelectronic neutral
// element (N+ behaves like C, O- like F).
func allowedValences(number, charge int) []int {
	if number <= 0 {
		return nil
	}
	e := ElementByNumber(number)
	if e == nil || e.Valences == nil {
		return nil
	}
	if charge == 0 {
		return e.Valences
	}
	iso := ElementByNumber(number - charge)
	if iso == nil || iso.Valences == nil {
		return nil
	}
	// only shift within the main-group block that carries valence data
	if iso.Number < 1 || iso.Number > 54 {
		return nil
	}
	return iso.Valences
}
