// Package descriptors computes molecular descriptors over a sanitized
// chem.Molecule: average molecular weight, Wildman-Crippen logP, Lipinski
// hydrogen-bond donor and acceptor counts, and the molecular formula.
package descriptors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/druglike/internal/chem"
)

// MolWt returns the average molecular weight in daltons, implicit hydrogens
// included. Isotope-labelled atoms count their exact isotopic mass.
func MolWt(m *chem.Molecule) float64 {
	total := 0.0
	for _, a := range m.Atoms {
		if a.Isotope > 0 {
			total += isotopeMass(a.Number, a.Isotope)
		} else {
			total += a.Element().Weight
		}
		total += float64(a.ImplicitH+a.ExplicitH) * chem.HydrogenWeight
	}
	return total
}

// HeavyAtomCount counts atoms other than hydrogen.
func HeavyAtomCount(m *chem.Molecule) int {
	n := 0
	for _, a := range m.Atoms {
		if !a.IsHydrogen() {
			n++
		}
	}
	return n
}

// Formula returns the Hill-order molecular formula with the net charge
// appended ("C9H8O4", "C2H7N+").
func Formula(m *chem.Molecule) string {
	counts := map[string]int{}
	charge := 0
	for _, a := range m.Atoms {
		counts[a.Element().Symbol]++
		if h := a.ImplicitH + a.ExplicitH; h > 0 {
			counts["H"] += h
		}
		charge += a.Charge
	}

	var symbols []string
	for s := range counts {
		if s == "C" || s == "H" {
			continue
		}
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	if counts["C"] > 0 {
		symbols = append([]string{"C", "H"}, symbols...)
	} else if counts["H"] > 0 {
		symbols = append(symbols, "H")
		sort.Strings(symbols)
	}

	var sb strings.Builder
	for _, s := range symbols {
		n := counts[s]
		if n == 0 {
			continue
		}
		sb.WriteString(s)
		if n > 1 {
			sb.WriteString(fmt.Sprint(n))
		}
	}
	switch {
	case charge == 1:
		sb.WriteString("+")
	case charge == -1:
		sb.WriteString("-")
	case charge > 1:
		fmt.Fprintf(&sb, "+%d", charge)
	case charge < -1:
		fmt.Fprintf(&sb, "%d", charge)
	}
	return sb.String()
}
