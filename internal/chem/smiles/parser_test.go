package smiles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/chem"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		atoms int
		bonds int
		frags int
	}{
		{"methane", "C", 1, 0, 1},
		{"ethanol", "CCO", 3, 2, 1},
		{"branches", "CC(C)(C)C", 5, 4, 1},
		{"benzene", "c1ccccc1", 6, 6, 1},
		{"two-digit ring", "C%10CCCCC%10", 6, 6, 1},
		{"salt", "[Na+].[Cl-]", 2, 0, 2},
		{"chlorine and bromine", "ClCCBr", 4, 3, 1},
		{"chirality ignored", "N[C@@H](C)C(=O)O", 6, 5, 1},
		{"directional bonds", "F/C=C/F", 4, 3, 1},
		{"wildcard", "*CC", 3, 2, 1},
		{"title after whitespace", "CCO ethanol", 3, 2, 1},
		{"ring bond symbol", "C=1CCCCC1", 6, 6, 1},
		{"nested branches", "CC(C(C)(C)O)N", 7, 6, 1},
		{"selenophene", "c1cc[se]c1", 5, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.atoms, m.NumAtoms())
			assert.Equal(t, tt.bonds, m.NumBonds())
			assert.Len(t, m.Fragments(), tt.frags)
		})
	}
}

func TestParse_BracketAtom(t *testing.T) {
	tests := []struct {
		input   string
		number  int
		isotope int
		charge  int
		hs      int
		class   int
	}{
		{"[NH4+]", 7, 0, 1, 4, 0},
		{"[13CH4]", 6, 13, 0, 4, 0},
		{"[Fe++]", 26, 0, 2, 0, 0},
		{"[Fe+3]", 26, 0, 3, 0, 0},
		{"[O-2]", 8, 0, -2, 0, 0},
		{"[CH3:7]", 6, 0, 0, 3, 7},
		{"[2H]", 1, 2, 0, 0, 0},
		{"[Cl-]", 17, 0, -1, 0, 0},
		{"[C@@H](F)(Cl)Br", 6, 0, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseGraph(tt.input)
			require.NoError(t, err)
			a := m.Atoms[0]
			assert.True(t, a.Bracket)
			assert.Equal(t, tt.number, a.Number)
			assert.Equal(t, tt.isotope, a.Isotope)
			assert.Equal(t, tt.charge, a.Charge)
			assert.Equal(t, tt.hs, a.ExplicitH)
			assert.Equal(t, tt.class, a.Class)
		})
	}
}

func TestParseGraph_BondOrders(t *testing.T) {
	m, err := ParseGraph("C=CC#N")
	require.NoError(t, err)
	assert.Equal(t, chem.BondDouble, m.Bonds[0].Order)
	assert.Equal(t, chem.BondSingle, m.Bonds[1].Order)
	assert.Equal(t, chem.BondTriple, m.Bonds[2].Order)

	m, err = ParseGraph("c1ccccc1-c1ccccc1")
	require.NoError(t, err)
	bridge := m.BondBetween(5, 6)
	require.NotNil(t, bridge)
	assert.False(t, bridge.Aromatic)
	assert.True(t, m.BondBetween(0, 1).Aromatic)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"leading whitespace", " CCO", 0},
		{"unbalanced open", "CC(C", 2},
		{"unbalanced close", "CC)C", 2},
		{"empty branch", "C()C", 2},
		{"branch first", "(C)C", 0},
		{"unclosed ring", "C1CCC", 1},
		{"ring on own atom", "C11", 2},
		{"leading bond", "=C", 0},
		{"consecutive bonds", "C==C", 2},
		{"dangling bond", "CC=", 2},
		{"unclosed bracket", "C[NH4+", 1},
		{"unknown element", "[Xx]", 1},
		{"unexpected character", "CCX", 2},
		{"trailing dot", "CC.", 2},
		{"leading dot", ".CC", 0},
		{"conflicting ring bonds", "C=1CCC#1", 7},
		{"bad percent ring", "C%1CC", 1},
		{"charge out of range", "[C+16]", 5},
		{"dot inside branch", "C(C.C)C", 3},
		{"junk in bracket", "[CH4x]", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var serr *SyntaxError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.pos, serr.Pos)
		})
	}
}

func TestParse_SanitizeErrors(t *testing.T) {
	_, err := Parse("c1cccc1")
	assert.True(t, errors.Is(err, chem.ErrKekulize))

	_, err = Parse("C(C)(C)(C)(C)C")
	var verr *chem.ValenceError
	assert.True(t, errors.As(err, &verr))
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := Parse("C1CC")
	require.Error(t, err)
	assert.Equal(t, "smiles: unclosed ring 1 at position 1", err.Error())
}
