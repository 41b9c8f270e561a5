package screening

import (
	"fmt"

	"github.com/turtacn/druglike/internal/domain/druglikeness"
)

// Molecule is a notation paired with its depiction legend.
type Molecule struct {
	SMILES string `json:"smiles"`
	Legend string `json:"legend"`
}

// DefaultMolecules is the batch screened when no input is given.
var DefaultMolecules = []Molecule{
	{SMILES: "O=C(OCc2nc(c(Sc1cc(Cl)cc(Cl)c1)n2Cc3ccncc3)C(C)C)N", Legend: "Molecule 1"},
	{SMILES: "CNC(=O)c1cc(ccn1)Oc2ccc(cc2)NC(=O)Nc3ccc(c(c3)C(F)(F)F)Cl", Legend: "Molecule 2"},
}

// DefaultBatch returns the notations and legends of DefaultMolecules.
func DefaultBatch() (smiles, legends []string) {
	for _, m := range DefaultMolecules {
		smiles = append(smiles, m.SMILES)
		legends = append(legends, m.Legend)
	}
	return smiles, legends
}

// Legends numbers n molecules as "<prefix> 1" ... "<prefix> n".
func Legends(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return out
}

// Item is the result for one input of a batch. Exactly one of Outcome and
// Err is set.
type Item struct {
	Index   int
	SMILES  string
	Outcome *druglikeness.EvaluationOutcome
	Err     error
	Cached  bool
}

// BatchResult holds the items in input order.
type BatchResult struct {
	Items []Item
}

// Outcomes returns the successful outcomes in input order.
func (b *BatchResult) Outcomes() []*druglikeness.EvaluationOutcome {
	var out []*druglikeness.EvaluationOutcome
	for _, it := range b.Items {
		if it.Outcome != nil {
			out = append(out, it.Outcome)
		}
	}
	return out
}

// Invalid returns the items that could not be evaluated.
func (b *BatchResult) Invalid() []Item {
	var out []Item
	for _, it := range b.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

// Passing counts the outcomes that pass every criterion.
func (b *BatchResult) Passing() int {
	n := 0
	for _, it := range b.Items {
		if it.Outcome != nil && it.Outcome.PassesAll {
			n++
		}
	}
	return n
}
