package reporting

import (
	stderrors "errors"

	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/common"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

// OutcomeDTO converts a domain outcome to its wire form.
func OutcomeDTO(o *druglikeness.EvaluationOutcome) *molecule.OutcomeDTO {
	if o == nil {
		return nil
	}
	criteria := make([]molecule.CriterionDTO, len(o.Results))
	for i, r := range o.Results {
		criteria[i] = molecule.CriterionDTO{
			Criterion:   string(r.Criterion),
			Passed:      r.Passed,
			Description: r.Description,
			Value:       r.Value,
			Threshold:   r.Threshold,
		}
	}
	return &molecule.OutcomeDTO{
		SMILES:  o.SMILES,
		Formula: o.Formula,
		Descriptors: molecule.DescriptorsDTO{
			MolecularWeight: o.Descriptors.MolecularWeight,
			LogP:            o.Descriptors.LogP,
			HDonors:         o.Descriptors.HDonors,
			HAcceptors:      o.Descriptors.HAcceptors,
		},
		Criteria:  criteria,
		PassesAll: o.PassesAll,
	}
}

// ErrorDetail converts err to its wire form, keeping the AppError code. The
// detail is the underlying cause when there is one.
func ErrorDetail(err error) *common.ErrorDetail {
	if err == nil {
		return nil
	}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		d := &common.ErrorDetail{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail}
		if ae.Cause != nil {
			d.Detail = ae.Cause.Error()
		}
		return d
	}
	return &common.ErrorDetail{Code: errors.ErrCodeInternal.String(), Message: err.Error()}
}

// BatchDTO converts a batch result to its wire form.
func BatchDTO(res *screening.BatchResult) *molecule.BatchEvaluateResponse {
	out := &molecule.BatchEvaluateResponse{Items: make([]molecule.BatchItemDTO, 0, len(res.Items))}
	for _, it := range res.Items {
		out.Items = append(out.Items, molecule.BatchItemDTO{
			Index:   it.Index,
			SMILES:  it.SMILES,
			Outcome: OutcomeDTO(it.Outcome),
			Error:   ErrorDetail(it.Err),
		})
	}
	out.Total = len(res.Items)
	out.Passing = res.Passing()
	out.Invalid = len(res.Invalid())
	return out
}
