package depict

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/druglike/internal/chem"
)

// Options controls the grid image.
type Options struct {
	// MolsPerRow is the number of cells per grid row.
	MolsPerRow int
	// Width and Height are the size of one cell in pixels.
	Width  int
	Height int
	// Legends are drawn centred below each molecule. Empty, or one per molecule.
	Legends []string
}

// DefaultOptions mirrors the classic two-per-row 300x300 grid.
func DefaultOptions() Options {
	return Options{MolsPerRow: 2, Width: 300, Height: 300}
}

// Layout cost grows with the square of the atom count, so drawable sizes are
// bounded per molecule and per grid.
const (
	MaxAtoms     = 250
	MaxGridAtoms = 5000
)

var (
	// ErrNoMolecules is returned when a grid is requested for an empty list.
	ErrNoMolecules = errors.New("depict: no molecules to draw")
	// ErrTooLarge is wrapped by CheckSize failures.
	ErrTooLarge = errors.New("depict: structure too large to draw")
)

// CheckSize rejects a grid holding a molecule above MaxAtoms or more than
// MaxGridAtoms atoms in total. Nil entries count as empty.
func CheckSize(mols []*chem.Molecule) error {
	total := 0
	for i, m := range mols {
		if m == nil {
			continue
		}
		n := m.NumAtoms()
		if n > MaxAtoms {
			return fmt.Errorf("%w: molecule %d has %d atoms, limit %d", ErrTooLarge, i+1, n, MaxAtoms)
		}
		total += n
	}
	if total > MaxGridAtoms {
		return fmt.Errorf("%w: grid has %d atoms, limit %d", ErrTooLarge, total, MaxGridAtoms)
	}
	return nil
}

// Validate checks the option values against the number of molecules.
func (o Options) Validate(n int) error {
	switch {
	case n == 0:
		return ErrNoMolecules
	case o.MolsPerRow < 1:
		return fmt.Errorf("depict: molecules per row must be positive, got %d", o.MolsPerRow)
	case o.Width < 50 || o.Height < 50:
		return fmt.Errorf("depict: cell size %dx%d is too small", o.Width, o.Height)
	case len(o.Legends) != 0 && len(o.Legends) != n:
		return fmt.Errorf("depict: %d legends for %d molecules", len(o.Legends), n)
	}
	return nil
}

const (
	maxBondPx     = 40.0
	legendPx      = 22.0
	cellPadding   = 0.08
	doubleGap     = 0.18 // fraction of the bond length
	innerShorten  = 0.15
	defaultColour = "#000000"
)

var elementColours = map[int]string{
	7:  "#3050F8",
	8:  "#FF0D0D",
	9:  "#33CC33",
	15: "#FF8000",
	16: "#CCCC00",
	17: "#1FF01F",
	35: "#A62929",
	53: "#940094",
}

func colour(a *chem.Atom) string {
	if c, ok := elementColours[a.Number]; ok {
		return c
	}
	return defaultColour
}

// GridSVG draws mols as a grid of cells and writes the SVG document to w. A
// nil entry leaves its cell empty apart from the legend. Nothing is written
// when ctx ends before the grid is complete.
func GridSVG(ctx context.Context, w io.Writer, mols []*chem.Molecule, opts Options) error {
	if err := opts.Validate(len(mols)); err != nil {
		return err
	}
	if err := CheckSize(mols); err != nil {
		return err
	}
	perRow := opts.MolsPerRow
	if perRow > len(mols) {
		perRow = len(mols)
	}
	rows := (len(mols) + perRow - 1) / perRow
	width, height := perRow*opts.Width, rows*opts.Height

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	sb.WriteString(`<rect width="100%" height="100%" fill="#FFFFFF"/>` + "\n")

	for k, m := range mols {
		x0 := (k % perRow) * opts.Width
		y0 := (k / perRow) * opts.Height
		legend := ""
		if len(opts.Legends) > 0 {
			legend = opts.Legends[k]
		}
		fmt.Fprintf(&sb, `<g class="molecule" transform="translate(%d,%d)">`+"\n", x0, y0)
		c := &cell{sb: &sb, width: float64(opts.Width), height: float64(opts.Height), legend: legend}
		if m != nil {
			if err := c.drawMolecule(ctx, m); err != nil {
				return err
			}
		}
		c.drawLegend()
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

type cell struct {
	sb            *strings.Builder
	width, height float64
	legend        string

	pts      []Point // pixel positions
	bond     float64 // bond length in pixels
	font     float64
	labelled []bool
}

func (c *cell) drawingArea() (x, y, w, h float64) {
	pad := cellPadding * math.Min(c.width, c.height)
	x, y = pad, pad
	w, h = c.width-2*pad, c.height-2*pad
	if c.legend != "" {
		h -= legendPx
	}
	return x, y, w, h
}

func (c *cell) drawMolecule(ctx context.Context, m *chem.Molecule) error {
	coords, err := Compute2DContext(ctx, m)
	if err != nil {
		return err
	}
	if len(coords) == 0 {
		return nil
	}
	minX, maxX, minY, maxY := bounds(coords)
	ax, ay, aw, ah := c.drawingArea()

	scale := maxBondPx
	if spanX := maxX - minX; spanX > 0 {
		scale = math.Min(scale, aw/spanX)
	}
	if spanY := maxY - minY; spanY > 0 {
		scale = math.Min(scale, ah/spanY)
	}
	c.bond = scale
	c.font = math.Max(8, math.Min(16, scale*0.5))

	// centre in the drawing area, y axis pointing up
	ox := ax + (aw-(maxX-minX)*scale)/2
	oy := ay + (ah-(maxY-minY)*scale)/2
	c.pts = make([]Point, len(coords))
	for i, p := range coords {
		c.pts[i] = Point{X: ox + (p.X-minX)*scale, Y: oy + (maxY-p.Y)*scale}
	}

	c.labelled = make([]bool, m.NumAtoms())
	for _, a := range m.Atoms {
		c.labelled[a.Index] = needsLabel(m, a)
	}
	for _, b := range m.Bonds {
		c.drawBond(m, b)
	}
	for _, a := range m.Atoms {
		if c.labelled[a.Index] {
			c.drawLabel(a)
		}
	}
	return nil
}

func needsLabel(m *chem.Molecule, a *chem.Atom) bool {
	return a.Number != 6 || a.Charge != 0 || a.Isotope != 0 || m.HeavyDegree(a.Index) == 0
}

func (c *cell) drawBond(m *chem.Molecule, b *chem.Bond) {
	p, q := c.pts[b.Begin], c.pts[b.End]
	p, q = c.trim(b.Begin, p, q), c.trim(b.End, q, p)
	ca, cb := colour(m.Atoms[b.Begin]), colour(m.Atoms[b.End])
	if !c.labelled[b.Begin] {
		ca = defaultColour
	}
	if !c.labelled[b.End] {
		cb = defaultColour
	}

	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		return
	}
	// unit normal
	nx, ny := -dy/length, dx/length
	gap := doubleGap * c.bond

	switch b.Order {
	case chem.BondDouble:
		if b.InRing {
			c.segment(p, q, ca, cb)
			side := c.ringSide(m, b, nx, ny)
			ip := Point{X: p.X + side*nx*gap + dx*innerShorten, Y: p.Y + side*ny*gap + dy*innerShorten}
			iq := Point{X: q.X + side*nx*gap - dx*innerShorten, Y: q.Y + side*ny*gap - dy*innerShorten}
			c.segment(ip, iq, ca, cb)
			return
		}
		h := gap / 2
		c.segment(offset(p, nx, ny, h), offset(q, nx, ny, h), ca, cb)
		c.segment(offset(p, nx, ny, -h), offset(q, nx, ny, -h), ca, cb)
	case chem.BondTriple:
		c.segment(p, q, ca, cb)
		c.segment(offset(p, nx, ny, gap), offset(q, nx, ny, gap), ca, cb)
		c.segment(offset(p, nx, ny, -gap), offset(q, nx, ny, -gap), ca, cb)
	default:
		c.segment(p, q, ca, cb)
	}
}

// ringSide returns +1 or -1: the side of the bond facing the centre of the
// smallest ring containing it.
func (c *cell) ringSide(m *chem.Molecule, b *chem.Bond, nx, ny float64) float64 {
	var best []int
	for _, r := range m.RingsContaining(b.Begin) {
		ring := m.Rings[r]
		for _, i := range ring {
			if i == b.End && (best == nil || len(ring) < len(best)) {
				best = ring
			}
		}
	}
	if best == nil {
		return 1
	}
	var cx, cy float64
	for _, i := range best {
		cx += c.pts[i].X
		cy += c.pts[i].Y
	}
	cx /= float64(len(best))
	cy /= float64(len(best))
	mid := Point{X: (c.pts[b.Begin].X + c.pts[b.End].X) / 2, Y: (c.pts[b.Begin].Y + c.pts[b.End].Y) / 2}
	if (cx-mid.X)*nx+(cy-mid.Y)*ny < 0 {
		return -1
	}
	return 1
}

// trim pulls the endpoint at a labelled atom back so the line clears the text.
func (c *cell) trim(atom int, from, to Point) Point {
	if !c.labelled[atom] {
		return from
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	l := math.Hypot(dx, dy)
	r := c.font * 0.6
	if l <= 2*r {
		return from
	}
	return Point{X: from.X + dx/l*r, Y: from.Y + dy/l*r}
}

// segment draws p-q, split at the midpoint when the two halves differ in colour.
func (c *cell) segment(p, q Point, ca, cb string) {
	if ca == cb {
		c.line(p, q, ca)
		return
	}
	mid := Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
	c.line(p, mid, ca)
	c.line(mid, q, cb)
}

func (c *cell) line(p, q Point, stroke string) {
	fmt.Fprintf(c.sb, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`+"\n",
		px(p.X), px(p.Y), px(q.X), px(q.Y), stroke, px(math.Max(1, c.bond/20)))
}

func (c *cell) drawLabel(a *chem.Atom) {
	p := c.pts[a.Index]
	text := AtomLabel(a)
	// knock out the bond lines behind the text
	w := c.font * 0.62 * float64(len(text))
	fmt.Fprintf(c.sb, `<rect x="%s" y="%s" width="%s" height="%s" fill="#FFFFFF"/>`+"\n",
		px(p.X-w/2), px(p.Y-c.font/2), px(w), px(c.font))
	fmt.Fprintf(c.sb, `<text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		px(p.X), px(p.Y), px(c.font), colour(a), html.EscapeString(text))
}

func (c *cell) drawLegend() {
	if c.legend == "" {
		return
	}
	fmt.Fprintf(c.sb, `<text class="legend" x="%s" y="%s" font-family="sans-serif" font-size="14" fill="#000000" text-anchor="middle">%s</text>`+"\n",
		px(c.width/2), px(c.height-legendPx/2), html.EscapeString(c.legend))
}

// AtomLabel renders the atom as drawn: isotope, element, hydrogens, charge
// ("NH2", "13C", "O-", "NH3+").
func AtomLabel(a *chem.Atom) string {
	var sb strings.Builder
	if a.Isotope > 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(a.Element().Symbol)
	switch h := a.ImplicitH + a.ExplicitH; {
	case h == 1:
		sb.WriteString("H")
	case h > 1:
		sb.WriteString("H" + strconv.Itoa(h))
	}
	switch q := a.Charge; {
	case q == 1:
		sb.WriteString("+")
	case q == -1:
		sb.WriteString("-")
	case q > 1:
		sb.WriteString(strconv.Itoa(q) + "+")
	case q < -1:
		sb.WriteString(strconv.Itoa(-q) + "-")
	}
	return sb.String()
}

func offset(p Point, nx, ny, d float64) Point {
	return Point{X: p.X + nx*d, Y: p.Y + ny*d}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
