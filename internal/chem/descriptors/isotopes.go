package descriptors

type isotopeKey struct {
	number, mass int
}

// isotopeMasses holds exact masses in daltons for labelled atoms likely to
// appear in drug structures.
var isotopeMasses = map[isotopeKey]float64{
	{1, 1}:    1.00782503207,
	{1, 2}:    2.0141017778,
	{1, 3}:    3.0160492777,
	{6, 11}:   11.0114336,
	{6, 12}:   12.0,
	{6, 13}:   13.0033548378,
	{6, 14}:   14.003241989,
	{7, 14}:   14.0030740048,
	{7, 15}:   15.0001088982,
	{8, 16}:   15.99491461956,
	{8, 17}:   16.99913170,
	{8, 18}:   17.9991610,
	{9, 18}:   18.0009380,
	{9, 19}:   18.99840322,
	{15, 31}:  30.97376163,
	{15, 32}:  31.97390727,
	{16, 32}:  31.97207100,
	{16, 34}:  33.96786690,
	{16, 35}:  34.96903216,
	{17, 35}:  34.96885268,
	{17, 37}:  36.96590259,
	{35, 79}:  78.9183371,
	{35, 81}:  80.9162906,
	{53, 123}: 122.905589,
	{53, 125}: 124.9046302,
	{53, 127}: 126.904473,
	{53, 131}: 130.9061246,
}

// isotopeMass returns the exact mass of the isotope, or the mass number when
// the isotope is not tabulated.
func isotopeMass(number, mass int) float64 {
	if m, ok := isotopeMasses[isotopeKey{number, mass}]; ok {
		return m
	}
	return float64(mass)
}
