package druglikeness

import (
	"fmt"
	"strconv"

	"github.com/google/cel-go/cel"

	"github.com/turtacn/druglike/pkg/errors"
)

// CEL variable names bound to the four descriptors.
const (
	VarMolecularWeight = "molecular_weight"
	VarLogP            = "logp"
	VarHDonors         = "h_donors"
	VarHAcceptors      = "h_acceptors"
)

// costLimit bounds a single predicate evaluation.
const costLimit = 10000

type rule struct {
	criterion  Criterion
	expression string
	threshold  float64
	program    cel.Program
	value      func(Descriptors) float64
	describe   func(Descriptors) string
}

// Evaluator applies the Rule of Five. Predicates are compiled once; an
// Evaluator is safe for concurrent use.
type Evaluator struct {
	toolkit Toolkit
	rules   []rule
}

// NewEvaluator compiles the four predicates. toolkit may be nil when only
// EvaluateDescriptors is used.
func NewEvaluator(toolkit Toolkit) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(VarMolecularWeight, cel.DoubleType),
		cel.Variable(VarLogP, cel.DoubleType),
		cel.Variable(VarHDonors, cel.IntType),
		cel.Variable(VarHAcceptors, cel.IntType),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRuleCompilationFailed, "create rule environment")
	}

	rules := []rule{
		{
			criterion:  CriterionMolecularWeight,
			expression: fmt.Sprintf("%s < %.1f", VarMolecularWeight, MaxMolecularWeight),
			threshold:  MaxMolecularWeight,
			value:      func(d Descriptors) float64 { return d.MolecularWeight },
			describe: func(d Descriptors) string {
				return fmt.Sprintf("%.2f < %s", d.MolecularWeight, formatThreshold(MaxMolecularWeight))
			},
		},
		{
			criterion:  CriterionLogP,
			expression: fmt.Sprintf("%s < %.1f", VarLogP, MaxLogP),
			threshold:  MaxLogP,
			value:      func(d Descriptors) float64 { return d.LogP },
			describe: func(d Descriptors) string {
				return fmt.Sprintf("%.2f < %s", d.LogP, formatThreshold(MaxLogP))
			},
		},
		{
			criterion:  CriterionHDonors,
			expression: fmt.Sprintf("%s < %d", VarHDonors, MaxHDonors),
			threshold:  MaxHDonors,
			value:      func(d Descriptors) float64 { return float64(d.HDonors) },
			describe: func(d Descriptors) string {
				return fmt.Sprintf("%d < %d", d.HDonors, MaxHDonors)
			},
		},
		{
			criterion:  CriterionHAcceptors,
			expression: fmt.Sprintf("%s < %d", VarHAcceptors, MaxHAcceptors),
			threshold:  MaxHAcceptors,
			value:      func(d Descriptors) float64 { return float64(d.HAcceptors) },
			describe: func(d Descriptors) string {
				return fmt.Sprintf("%d < %d", d.HAcceptors, MaxHAcceptors)
			},
		},
	}

	for i := range rules {
		ast, issues := env.Compile(rules[i].expression)
		if issues != nil && issues.Err() != nil {
			return nil, errors.Wrap(issues.Err(), errors.ErrCodeRuleCompilationFailed,
				"compile "+string(rules[i].criterion))
		}
		prg, err := env.Program(ast, cel.CostLimit(costLimit))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeRuleCompilationFailed,
				"build program for "+string(rules[i].criterion))
		}
		rules[i].program = prg
	}

	return &Evaluator{toolkit: toolkit, rules: rules}, nil
}

// Evaluate parses smiles with the toolkit and applies the rule. A notation the
// toolkit rejects yields an InvalidStructure error and no outcome.
func (e *Evaluator) Evaluate(smiles string) (*EvaluationOutcome, error) {
	if e.toolkit == nil {
		return nil, errors.Internal("evaluator has no toolkit")
	}
	s, err := e.toolkit.Parse(smiles)
	if err != nil || s == nil {
		return nil, errors.InvalidStructure(smiles).WithCause(err)
	}
	out := e.EvaluateDescriptors(smiles, DescriptorsOf(s))
	out.Formula = s.Formula()
	return out, nil
}

// EvaluateDescriptors applies the rule to already measured descriptors.
func (e *Evaluator) EvaluateDescriptors(smiles string, d Descriptors) *EvaluationOutcome {
	vars := map[string]any{
		VarMolecularWeight: d.MolecularWeight,
		VarLogP:            d.LogP,
		VarHDonors:         int64(d.HDonors),
		VarHAcceptors:      int64(d.HAcceptors),
	}

	results := make(RuleResult, 0, len(e.rules))
	all := true
	for _, r := range e.rules {
		passed := false
		if val, _, err := r.program.Eval(vars); err == nil {
			if b, ok := val.Value().(bool); ok {
				passed = b
			}
		}
		all = all && passed
		results = append(results, CriterionResult{
			Criterion:   r.criterion,
			Passed:      passed,
			Description: r.describe(d),
			Value:       r.value(d),
			Threshold:   r.threshold,
		})
	}

	return &EvaluationOutcome{
		SMILES:      smiles,
		Descriptors: d,
		Results:     results,
		PassesAll:   all,
	}
}

// Expressions returns the compiled predicate of every criterion.
func (e *Evaluator) Expressions() map[Criterion]string {
	out := make(map[Criterion]string, len(e.rules))
	for _, r := range e.rules {
		out[r.criterion] = r.expression
	}
	return out
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
