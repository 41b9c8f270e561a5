// Package depict computes 2D coordinates for molecules and draws them as an
// SVG grid image, one cell per molecule with an optional legend below it.
package depict

import (
	"context"
	"math"

	"github.com/turtacn/druglike/internal/chem"
)

// Point is a position in bond-length units.
type Point struct {
	X, Y float64
}

const (
	// fragmentGap separates disconnected fragments laid out side by side.
	fragmentGap = 1.5

	majorizeIterations = 400
	majorizeTolerance  = 1e-7
	powerIterations    = 300
)

// chainStep is the end-to-end distance gained per bond of a zig-zag chain
// with 120 degree angles.
var chainStep = math.Sqrt(3) / 2

// Compute2D returns deterministic coordinates for every atom of m with unit
// bond length. Fragments are placed left to right in atom order.
func Compute2D(m *chem.Molecule) []Point {
	pts, _ := Compute2DContext(context.Background(), m)
	return pts
}

// Compute2DContext is Compute2D with cancellation. The layout is quadratic in
// the fragment size; ctx is checked between refinement rounds.
func Compute2DContext(ctx context.Context, m *chem.Molecule) ([]Point, error) {
	pts := make([]Point, m.NumAtoms())
	offset := 0.0
	for _, frag := range m.Fragments() {
		local, err := layoutFragment(ctx, m, frag)
		if err != nil {
			return nil, err
		}
		minX, maxX, minY, maxY := bounds(local)
		for k, i := range frag {
			pts[i] = Point{X: local[k].X - minX + offset, Y: local[k].Y - (minY+maxY)/2}
		}
		offset += maxX - minX + fragmentGap
	}
	return pts, nil
}

func layoutFragment(ctx context.Context, m *chem.Molecule, frag []int) ([]Point, error) {
	switch len(frag) {
	case 1:
		return []Point{{}}, nil
	case 2:
		return []Point{{}, {X: 1}}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := targetDistances(m, frag)
	pts := classicalMDS(target)
	if err := majorize(ctx, pts, target); err != nil {
		return nil, err
	}
	orient(pts)
	return pts, nil
}

// targetDistances builds the ideal pairwise distances of a fragment: ring
// members sit on a regular polygon, everything else follows a zig-zag chain
// over the topological distance.
func targetDistances(m *chem.Molecule, frag []int) [][]float64 {
	n := len(frag)
	local := make(map[int]int, n)
	for k, i := range frag {
		local[i] = k
	}

	d := make([][]float64, n)
	for s := range frag {
		d[s] = make([]float64, n)
		hops := bfs(m, frag[s], local)
		for t := range frag {
			switch h := hops[t]; {
			case h <= 0:
			case h == 1:
				d[s][t] = 1
			default:
				d[s][t] = float64(h) * chainStep
			}
		}
	}

	ringOf := make([][]int, n)
	for s := range ringOf {
		ringOf[s] = make([]int, n)
	}
	for _, ring := range m.Rings {
		r := len(ring)
		if _, ok := local[ring[0]]; !ok {
			continue
		}
		for p := 0; p < r; p++ {
			for q := p + 1; q < r; q++ {
				a, b := local[ring[p]], local[ring[q]]
				if ringOf[a][b] != 0 && ringOf[a][b] <= r {
					continue
				}
				k := q - p
				if r-k < k {
					k = r - k
				}
				chord := math.Sin(math.Pi*float64(k)/float64(r)) / math.Sin(math.Pi/float64(r))
				d[a][b], d[b][a] = chord, chord
				ringOf[a][b], ringOf[b][a] = r, r
			}
		}
	}
	return d
}

// bfs returns hop counts from start to every fragment atom, indexed locally.
func bfs(m *chem.Molecule, start int, local map[int]int) []int {
	hops := make([]int, len(local))
	for i := range hops {
		hops[i] = -1
	}
	hops[local[start]] = 0
	queue := []int{start}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range m.Neighbors(i) {
			lj, ok := local[j]
			if !ok || hops[lj] >= 0 {
				continue
			}
			hops[lj] = hops[local[i]] + 1
			queue = append(queue, j)
		}
	}
	return hops
}

// classicalMDS embeds the distance matrix in the plane from the two leading
// eigenvectors of the double-centred squared distances.
func classicalMDS(d [][]float64) []Point {
	n := len(d)
	b := make([][]float64, n)
	rowMean := make([]float64, n)
	grand := 0.0
	for i := range d {
		b[i] = make([]float64, n)
		for j := range d[i] {
			sq := d[i][j] * d[i][j]
			b[i][j] = sq
			rowMean[i] += sq
		}
		grand += rowMean[i]
		rowMean[i] /= float64(n)
	}
	grand /= float64(n * n)

	// Gershgorin shift keeps the spectrum non-negative so power iteration
	// converges to the largest eigenvalue rather than the largest magnitude.
	shift := 0.0
	for i := range b {
		row := 0.0
		for j := range b[i] {
			b[i][j] = -0.5 * (b[i][j] - rowMean[i] - rowMean[j] + grand)
			row += math.Abs(b[i][j])
		}
		shift = math.Max(shift, row)
	}
	for i := range b {
		b[i][i] += shift
	}

	v1, l1 := powerIteration(b, nil)
	v2, l2 := powerIteration(b, v1)
	s1 := math.Sqrt(math.Max(l1-shift, 0))
	s2 := math.Sqrt(math.Max(l2-shift, 0))

	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: v1[i] * s1, Y: v2[i] * s2}
	}
	return pts
}

// powerIteration returns the dominant unit eigenvector of b orthogonal to
// ortho (when given) and its eigenvalue.
func powerIteration(b [][]float64, ortho []float64) ([]float64, float64) {
	n := len(b)
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Sin(float64(i)+1) + 0.5*math.Cos(float64(2*i))
	}
	w := make([]float64, n)
	lambda := 0.0
	for it := 0; it < powerIterations; it++ {
		if ortho != nil {
			project(v, ortho)
		}
		if !normalize(v) {
			return v, 0
		}
		for i := range b {
			s := 0.0
			for j, bij := range b[i] {
				s += bij * v[j]
			}
			w[i] = s
		}
		lambda = dot(v, w)
		v, w = w, v
	}
	if ortho != nil {
		project(v, ortho)
	}
	normalize(v)
	return v, lambda
}

// majorize refines pts by weighted stress majorization with weights d^-2,
// updating one node at a time.
func majorize(ctx context.Context, pts []Point, d [][]float64) error {
	n := len(pts)
	prev := stress(pts, d)
	for it := 0; it < majorizeIterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			var nx, ny, den float64
			for j := 0; j < n; j++ {
				if i == j || d[i][j] == 0 {
					continue
				}
				w := 1 / (d[i][j] * d[i][j])
				dx, dy := pts[i].X-pts[j].X, pts[i].Y-pts[j].Y
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					// coincident points: push apart along a fixed direction
					dx, dy, dist = float64(i-j), 1, math.Hypot(float64(i-j), 1)
				}
				nx += w * (pts[j].X + d[i][j]*dx/dist)
				ny += w * (pts[j].Y + d[i][j]*dy/dist)
				den += w
			}
			if den > 0 {
				pts[i] = Point{X: nx / den, Y: ny / den}
			}
		}
		cur := stress(pts, d)
		if prev-cur < majorizeTolerance*prev {
			return nil
		}
		prev = cur
	}
	return nil
}

func stress(pts []Point, d [][]float64) float64 {
	s := 0.0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if d[i][j] == 0 {
				continue
			}
			diff := math.Hypot(pts[i].X-pts[j].X, pts[i].Y-pts[j].Y) - d[i][j]
			s += diff * diff / (d[i][j] * d[i][j])
		}
	}
	return s
}

// orient centres pts and rotates their principal axis onto X.
func orient(pts []Point) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	var sxx, syy, sxy float64
	for i := range pts {
		pts[i].X -= cx
		pts[i].Y -= cy
		sxx += pts[i].X * pts[i].X
		syy += pts[i].Y * pts[i].Y
		sxy += pts[i].X * pts[i].Y
	}
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	c, s := math.Cos(-theta), math.Sin(-theta)
	for i, p := range pts {
		pts[i] = Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
	}
}

func bounds(pts []Point) (minX, maxX, minY, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func project(v, u []float64) {
	k := dot(v, u)
	for i := range v {
		v[i] -= k * u[i]
	}
}

func normalize(v []float64) bool {
	norm := math.Sqrt(dot(v, v))
	if norm < 1e-12 {
		return false
	}
	for i := range v {
		v[i] /= norm
	}
	return true
}
