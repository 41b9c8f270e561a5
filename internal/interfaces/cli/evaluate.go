package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/druglike/internal/application/reporting"
	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

// InvalidItemsError is returned after a full report in which some structures
// could not be parsed. The process exits non-zero, but every valid item has
// already been printed.
type InvalidItemsError struct {
	Invalid int
	Total   int
}

func (e *InvalidItemsError) Error() string {
	return fmt.Sprintf("%d of %d structures could not be evaluated", e.Invalid, e.Total)
}

type evaluateOptions struct {
	depictPath string
}

// NewEvaluateCmd creates the evaluate subcommand.
func NewEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate [SMILES...]",
		Short: "Check structures against the Rule of Five",
		Long: "Evaluate each SMILES argument and print one report block per structure.\n" +
			"Without arguments the two built-in example molecules are evaluated and\n" +
			"their grid is written to depiction.output. Invalid structures are\n" +
			"reported and skipped; the exit status is 1 when any were found.",
		Example: `  druglike evaluate CCO 'CC(=O)Oc1ccccc1C(=O)O'
  druglike evaluate -o json --depict grid.svg CCO
  druglike --server localhost:8080 evaluate CCO`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runEvaluate(cmd, cc, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.depictPath, "depict", "", "also write the structures as an SVG grid to this path (- for stdout)")
	return cmd
}

func runEvaluate(cmd *cobra.Command, cc *CLIContext, opts *evaluateOptions, args []string) error {
	ctx, cancel := cc.WithTimeout(cmd.Context())
	defer cancel()

	smiles, legends := args, screening.Legends(cc.Config.Depiction.LegendPrefix, len(args))
	depictPath := opts.depictPath
	if len(args) == 0 {
		smiles, legends = screening.DefaultBatch()
		if !cmd.Flags().Changed("depict") {
			depictPath = cc.Config.Depiction.Output
		}
	}

	items, evalErr := evaluateItems(ctx, cc, smiles)
	if err := reporting.New(cc.OutputFormat, cc.Color).Write(cmd.OutOrStdout(), items); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if evalErr != nil {
		return evalErr
	}

	if depictPath != "" {
		if err := writeDepiction(ctx, cmd, cc, depictPath, molecule.DepictionRequest{SMILES: smiles, Legends: legends}); err != nil {
			return err
		}
	}

	invalid := 0
	for _, it := range items {
		if it.Error != nil {
			invalid++
		}
	}
	if invalid > 0 {
		return &InvalidItemsError{Invalid: invalid, Total: len(items)}
	}
	return nil
}

// evaluateItems runs the batch locally or through the API. On interruption
// the items evaluated so far are returned with the error.
func evaluateItems(ctx context.Context, cc *CLIContext, smiles []string) ([]molecule.BatchItemDTO, error) {
	if cc.Client != nil {
		resp, err := cc.Client.EvaluateBatch(ctx, smiles)
		if err != nil {
			return nil, fmt.Errorf("remote evaluation failed: %w", err)
		}
		return resp.Items, nil
	}

	res, err := cc.Screening.EvaluateBatch(ctx, smiles)
	if res == nil {
		return nil, err
	}
	if err != nil {
		cc.Logger.Warn("evaluation interrupted", logging.Int("evaluated", len(res.Items)), logging.Int("requested", len(smiles)))
	}
	return reporting.BatchDTO(res).Items, err
}
