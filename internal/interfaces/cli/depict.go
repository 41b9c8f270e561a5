package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/chem/depict"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

type depictOptions struct {
	out     string
	perRow  int
	size    string
	legends []string
}

// NewDepictCmd creates the depict subcommand.
func NewDepictCmd() *cobra.Command {
	opts := &depictOptions{}

	cmd := &cobra.Command{
		Use:   "depict [SMILES...]",
		Short: "Draw structures as an SVG grid",
		Long: "Write the structures as one SVG image, one labelled cell per structure.\n" +
			"Structures that cannot be parsed are left as empty cells.",
		Example: `  druglike depict --out grid.svg --per-row 3 CCO c1ccccc1 'CC(=O)O'
  druglike depict --legend ethanol --legend benzene CCO c1ccccc1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runDepict(cmd, cc, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.out, "out", "", "output path, - for stdout (default: depiction.output)")
	f.IntVar(&opts.perRow, "per-row", 0, "molecules per row (default: depiction.mols_per_row)")
	f.StringVar(&opts.size, "size", "", "cell size as WIDTHxHEIGHT, e.g. 300x300")
	f.StringArrayVar(&opts.legends, "legend", nil, "legend for the next structure; repeat once per structure")
	return cmd
}

func runDepict(cmd *cobra.Command, cc *CLIContext, opts *depictOptions, args []string) error {
	ctx, cancel := cc.WithTimeout(cmd.Context())
	defer cancel()

	req := molecule.DepictionRequest{
		SMILES:     args,
		Legends:    screening.Legends(cc.Config.Depiction.LegendPrefix, len(args)),
		MolsPerRow: opts.perRow,
	}
	if len(args) == 0 {
		req.SMILES, req.Legends = screening.DefaultBatch()
	}
	if len(opts.legends) > 0 {
		req.Legends = opts.legends
	}
	if opts.size != "" {
		if _, err := fmt.Sscanf(opts.size, "%dx%d", &req.Width, &req.Height); err != nil {
			return fmt.Errorf("invalid --size %q: expected WIDTHxHEIGHT", opts.size)
		}
	}

	out := opts.out
	if out == "" {
		out = cc.Config.Depiction.Output
	}
	return writeDepiction(ctx, cmd, cc, out, req)
}

// writeDepiction renders req into path, locally or through the API.
func writeDepiction(ctx context.Context, cmd *cobra.Command, cc *CLIContext, path string, req molecule.DepictionRequest) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create depiction file: %w", err)
		}
		defer f.Close()
		w = f
	}

	skipped, err := renderDepiction(ctx, cc, w, req)
	if err != nil {
		if path != "-" {
			_ = os.Remove(path)
		}
		return fmt.Errorf("depiction failed: %w", err)
	}
	cc.Logger.Info("depiction written",
		logging.String("path", path),
		logging.Int("molecules", len(req.SMILES)),
		logging.Int("skipped", skipped))
	return nil
}

func renderDepiction(ctx context.Context, cc *CLIContext, w io.Writer, req molecule.DepictionRequest) (int, error) {
	if cc.Client != nil {
		return cc.Client.Depict(ctx, w, req)
	}

	opts := depict.Options{
		MolsPerRow: cc.Config.Depiction.MolsPerRow,
		Width:      cc.Config.Depiction.Width,
		Height:     cc.Config.Depiction.Height,
		Legends:    req.Legends,
	}
	if req.MolsPerRow > 0 {
		opts.MolsPerRow = req.MolsPerRow
	}
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}
	if err := opts.Validate(len(req.SMILES)); err != nil {
		return 0, err
	}
	failed, err := cc.Screening.Depict(ctx, w, req.SMILES, opts)
	return len(failed), err
}
