// Package druglikeness evaluates Lipinski's Rule of Five over the four
// descriptors of a parsed molecule.
package druglikeness

// Criterion names one Rule of Five check. The string is the report label.
type Criterion string

const (
	CriterionMolecularWeight Criterion = "Molecular Weight"
	CriterionLogP            Criterion = "LogP"
	CriterionHDonors         Criterion = "Hydrogen Bond Donors (HBD)"
	CriterionHAcceptors      Criterion = "Hydrogen Bond Acceptors (HBA)"
)

// Criteria lists the checks in report order.
var Criteria = []Criterion{
	CriterionMolecularWeight,
	CriterionLogP,
	CriterionHDonors,
	CriterionHAcceptors,
}

// Thresholds. Every check is a strict less-than.
const (
	MaxMolecularWeight = 500.0
	MaxLogP            = 5.0
	MaxHDonors         = 5
	MaxHAcceptors      = 10
)

// Descriptors are the four measured properties of one molecule.
type Descriptors struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	HDonors         int     `json:"h_donors"`
	HAcceptors      int     `json:"h_acceptors"`
}

// CriterionResult is the verdict of one check.
type CriterionResult struct {
	Criterion   Criterion `json:"criterion"`
	Passed      bool      `json:"passed"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
}

// RuleResult holds the four verdicts in report order.
type RuleResult []CriterionResult

// Get returns the verdict for c.
func (r RuleResult) Get(c Criterion) (CriterionResult, bool) {
	for _, cr := range r {
		if cr.Criterion == c {
			return cr, true
		}
	}
	return CriterionResult{}, false
}

// Failed returns the criteria that did not pass, in report order.
func (r RuleResult) Failed() []Criterion {
	var out []Criterion
	for _, cr := range r {
		if !cr.Passed {
			out = append(out, cr.Criterion)
		}
	}
	return out
}

// EvaluationOutcome is the complete result for one structure.
type EvaluationOutcome struct {
	SMILES      string      `json:"smiles"`
	Formula     string      `json:"formula,omitempty"`
	Descriptors Descriptors `json:"descriptors"`
	Results     RuleResult  `json:"results"`
	PassesAll   bool        `json:"passes_all"`
}
