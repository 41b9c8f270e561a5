// Package molecule defines the request and response bodies of the Rule of
// Five API. It carries no logic so clients can import it without pulling in
// the toolkit.
package molecule

import "github.com/turtacn/druglike/pkg/types/common"

// EvaluateRequest is the body of POST /api/v1/ro5/evaluate.
type EvaluateRequest struct {
	SMILES string `json:"smiles"`
}

// BatchEvaluateRequest is the body of POST /api/v1/ro5/batch.
type BatchEvaluateRequest struct {
	SMILES []string `json:"smiles"`
}

// DepictionRequest is the body of POST /api/v1/depictions. Zero sizes select
// the server defaults; Legends, when present, must match SMILES one to one.
type DepictionRequest struct {
	SMILES     []string `json:"smiles"`
	Legends    []string `json:"legends,omitempty"`
	MolsPerRow int      `json:"mols_per_row,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
}

// DescriptorsDTO carries the four measured properties.
type DescriptorsDTO struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	HDonors         int     `json:"h_donors"`
	HAcceptors      int     `json:"h_acceptors"`
}

// CriterionDTO is the verdict of one check. Description has the form
// "<value> < <threshold>".
type CriterionDTO struct {
	Criterion   string  `json:"criterion"`
	Passed      bool    `json:"passed"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Threshold   float64 `json:"threshold"`
}

// OutcomeDTO is the evaluation of one structure. Criteria are in report
// order: weight, logP, donors, acceptors.
type OutcomeDTO struct {
	SMILES      string         `json:"smiles"`
	Formula     string         `json:"formula,omitempty"`
	Descriptors DescriptorsDTO `json:"descriptors"`
	Criteria    []CriterionDTO `json:"criteria"`
	PassesAll   bool           `json:"passes_all"`
}

// BatchItemDTO is one entry of a batch. Exactly one of Outcome and Error is
// set.
type BatchItemDTO struct {
	Index   int                 `json:"index"`
	SMILES  string              `json:"smiles"`
	Outcome *OutcomeDTO         `json:"outcome,omitempty"`
	Error   *common.ErrorDetail `json:"error,omitempty"`
}

// BatchEvaluateResponse lists the items in request order with totals.
type BatchEvaluateResponse struct {
	Items   []BatchItemDTO `json:"items"`
	Total   int            `json:"total"`
	Passing int            `json:"passing"`
	Invalid int            `json:"invalid"`
}

// Failed returns the labels of the criteria that did not pass.
func (o *OutcomeDTO) Failed() []string {
	var out []string
	for _, c := range o.Criteria {
		if !c.Passed {
			out = append(out, c.Criterion)
		}
	}
	return out
}

// HeaderDepictionSkipped carries the number of structures a depiction
// response had to leave blank.
const HeaderDepictionSkipped = "X-Depiction-Skipped"
