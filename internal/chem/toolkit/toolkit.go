// Package toolkit exposes the native cheminformatics packages behind the
// druglikeness.Toolkit boundary and renders depiction grids.
package toolkit

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/turtacn/druglike/internal/chem"
	"github.com/turtacn/druglike/internal/chem/depict"
	"github.com/turtacn/druglike/internal/chem/descriptors"
	"github.com/turtacn/druglike/internal/chem/smiles"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/pkg/errors"
)

// Molecule is a parsed structure. Descriptors are computed on each call.
type Molecule struct {
	graph    *chem.Molecule
	notation string
}

var _ druglikeness.Structure = (*Molecule)(nil)

// Graph returns the underlying molecular graph.
func (m *Molecule) Graph() *chem.Molecule { return m.graph }

// Notation returns the SMILES the molecule was parsed from.
func (m *Molecule) Notation() string { return m.notation }

func (m *Molecule) MolecularWeight() float64 { return descriptors.MolWt(m.graph) }
func (m *Molecule) LogP() float64            { return descriptors.MolLogP(m.graph) }
func (m *Molecule) HDonors() int             { return descriptors.NumHDonors(m.graph) }
func (m *Molecule) HAcceptors() int          { return descriptors.NumHAcceptors(m.graph) }
func (m *Molecule) Formula() string          { return descriptors.Formula(m.graph) }

// Toolkit is the native implementation of druglikeness.Toolkit.
type Toolkit struct{}

var _ druglikeness.Toolkit = Toolkit{}

// New returns the toolkit.
func New() Toolkit { return Toolkit{} }

// Parse implements druglikeness.Toolkit.
func (Toolkit) Parse(notation string) (druglikeness.Structure, error) {
	m, err := ParseMolecule(notation)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ParseMolecule parses notation; failures carry the parser or sanitizer error.
func ParseMolecule(notation string) (*Molecule, error) {
	g, err := smiles.Parse(notation)
	if err != nil {
		return nil, err
	}
	return &Molecule{graph: g, notation: notation}, nil
}

// Render parses every notation and writes the grid SVG to w. Unparseable
// entries are drawn as empty cells; the notations that failed are returned
// alongside a nil error. Structures too large to lay out are rejected with
// CodeInvalidParam before any drawing starts.
func (Toolkit) Render(ctx context.Context, w io.Writer, notations []string, opts depict.Options) ([]string, error) {
	graphs := make([]*chem.Molecule, len(notations))
	var failed []string
	for i, s := range notations {
		g, err := smiles.Parse(s)
		if err != nil {
			failed = append(failed, s)
			continue
		}
		graphs[i] = g
	}
	if err := depict.GridSVG(ctx, w, graphs, opts); err != nil {
		switch {
		case stderrors.Is(err, depict.ErrTooLarge):
			return failed, errors.InvalidParam("structure too large to depict").WithDetail(err.Error()).WithCause(err)
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			return failed, errors.Wrap(err, errors.ErrCodeTimeout, "depiction cancelled")
		}
		return failed, errors.Wrap(err, errors.ErrCodeDepictionFailed, "render depiction grid")
	}
	return failed, nil
}
