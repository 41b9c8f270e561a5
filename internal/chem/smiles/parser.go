// Package smiles parses SMILES line notation into a sanitized chem.Molecule.
//
// Supported: the organic subset (B C N O P S F Cl Br I and aromatic
// b c n o p s), bracket atoms with isotope, chirality (parsed and
// ignored), hydrogen count, charge and atom class, the "*" wildcard, bond
// symbols - = # $ : / \, branches, ring closures 0-9 and %nn, and "."
// separated fragments.
package smiles

import (
	"fmt"
	"strings"

	"github.com/turtacn/druglike/internal/chem"
)

// SyntaxError describes malformed notation. Pos is a byte offset.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("smiles: %s at position %d", e.Msg, e.Pos)
}

// Parse reads notation and returns the sanitized molecule. Empty or blank
// input is rejected. Anything after the first whitespace is treated as a
// title and ignored.
func Parse(notation string) (*chem.Molecule, error) {
	mol, err := ParseGraph(notation)
	if err != nil {
		return nil, err
	}
	if err := chem.Sanitize(mol); err != nil {
		return nil, err
	}
	return mol, nil
}

// ParseGraph reads notation into a raw graph without hydrogen assignment or
// kekulization.
func ParseGraph(notation string) (*chem.Molecule, error) {
	p := &parser{
		src:   notation,
		mol:   chem.NewMolecule(),
		prev:  -1,
		rings: map[int]ringBond{},
	}
	if strings.TrimSpace(notation) == "" {
		return nil, p.errorf(0, "empty input")
	}
	if i := strings.IndexAny(notation, " \t\r\n"); i >= 0 {
		if i == 0 {
			return nil, p.errorf(0, "leading whitespace")
		}
		p.src = notation[:i]
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// bondSymbol is a bond written in the notation; 0 means none was written.
type bondSymbol byte

type ringBond struct {
	atom int
	bond bondSymbol
	pos  int
}

type branch struct {
	atom  int
	atoms int // atom count when the branch opened
	pos   int
}

type parser struct {
	src  string
	pos  int
	mol  *chem.Molecule
	prev int

	bond    bondSymbol
	bondPos int

	branches []branch
	rings    map[int]ringBond
}

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Input: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf(p.pos, "branch opened before any atom")
			}
			if p.bond != 0 {
				return p.errorf(p.bondPos, "bond symbol before branch")
			}
			p.branches = append(p.branches, branch{atom: p.prev, atoms: p.mol.NumAtoms(), pos: p.pos})
			p.pos++

		case c == ')':
			if len(p.branches) == 0 {
				return p.errorf(p.pos, "unbalanced ')'")
			}
			if p.bond != 0 {
				return p.errorf(p.bondPos, "dangling bond")
			}
			top := p.branches[len(p.branches)-1]
			if p.mol.NumAtoms() == top.atoms {
				return p.errorf(p.pos, "empty branch")
			}
			p.branches = p.branches[:len(p.branches)-1]
			p.prev = top.atom
			p.pos++

		case c == '.':
			if p.bond != 0 {
				return p.errorf(p.bondPos, "dangling bond")
			}
			if p.prev < 0 {
				return p.errorf(p.pos, "empty fragment")
			}
			if len(p.branches) > 0 {
				return p.errorf(p.pos, "'.' inside a branch")
			}
			p.prev = -1
			p.pos++

		case strings.IndexByte(`-=#$:/\`, c) >= 0:
			if p.prev < 0 {
				return p.errorf(p.pos, "bond without a preceding atom")
			}
			if p.bond != 0 {
				return p.errorf(p.pos, "consecutive bond symbols")
			}
			p.bond, p.bondPos = bondSymbol(c), p.pos
			p.pos++

		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}

		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}

		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	if p.bond != 0 {
		return p.errorf(p.bondPos, "dangling bond")
	}
	if len(p.branches) > 0 {
		return p.errorf(p.branches[len(p.branches)-1].pos, "unbalanced '('")
	}
	if p.prev < 0 && p.mol.NumAtoms() > 0 {
		return p.errorf(len(p.src)-1, "empty fragment")
	}
	if len(p.rings) > 0 {
		first := -1
		for num, rb := range p.rings {
			if first < 0 || rb.pos < p.rings[first].pos {
				first = num
			}
		}
		return p.errorf(p.rings[first].pos, "unclosed ring %d", first)
	}
	if p.mol.NumAtoms() == 0 {
		return p.errorf(0, "no atoms")
	}
	return nil
}

// addAtom appends an atom and bonds it to the previous one.
func (p *parser) addAtom(a chem.Atom, pos int) error {
	idx := p.mol.AddAtom(a)
	if p.prev >= 0 {
		if err := p.connect(p.prev, idx, p.bond, pos); err != nil {
			return err
		}
	}
	p.bond = 0
	p.prev = idx
	return nil
}

func (p *parser) connect(i, j int, sym bondSymbol, pos int) error {
	order, aromatic := chem.BondSingle, false
	switch sym {
	case 0:
		aromatic = p.mol.Atoms[i].Aromatic && p.mol.Atoms[j].Aromatic
	case '-', '/', '\\':
	case '=':
		order = chem.BondDouble
	case '#':
		order = chem.BondTriple
	case '$':
		order = chem.BondQuadruple
	case ':':
		aromatic = true
	}
	if _, err := p.mol.AddBond(i, j, order, aromatic); err != nil {
		return p.errorf(pos, "%s", strings.TrimPrefix(err.Error(), "chem: "))
	}
	return nil
}

func (p *parser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.errorf(start, "ring closure before any atom")
	}
	var num int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf(start, "'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringBond{atom: p.prev, bond: p.bond, pos: start}
		p.bond = 0
		return nil
	}
	delete(p.rings, num)

	sym := p.bond
	switch {
	case open.bond == 0:
	case sym == 0:
		sym = open.bond
	case isDirectional(open.bond) && isDirectional(sym):
	case open.bond != sym:
		return p.errorf(start, "conflicting bond symbols for ring %d", num)
	}
	if open.atom == p.prev {
		return p.errorf(start, "ring %d closes on its own atom", num)
	}
	if err := p.connect(open.atom, p.prev, sym, start); err != nil {
		return err
	}
	p.bond = 0
	return nil
}

func (p *parser) organicAtom() error {
	start := p.pos
	rest := p.src[p.pos:]
	var sym string
	switch {
	case strings.HasPrefix(rest, "Cl"), strings.HasPrefix(rest, "Br"):
		sym = rest[:2]
	default:
		sym = rest[:1]
	}

	a := chem.Atom{}
	switch {
	case sym == "*":
		a.Number = 0
	case sym == "Cl" || sym == "Br" || strings.Contains("BCNOPSFI", sym):
		e, _ := chem.ElementBySymbol(sym)
		a.Number = e.Number
	case strings.Contains("bcnops", sym):
		e, _ := chem.AromaticElement(sym)
		a.Number = e.Number
		a.Aromatic = true
	default:
		return p.errorf(start, "unexpected character %q", rest[0])
	}
	p.pos += len(sym)
	return p.addAtom(a, start)
}

func (p *parser) bracketAtom() error {
	start := p.pos
	end := strings.IndexByte(p.src[start:], ']')
	if end < 0 {
		return p.errorf(start, "unclosed '['")
	}
	body := p.src[start+1 : start+end]
	a, err := p.parseBracket(body, start+1)
	if err != nil {
		return err
	}
	p.pos = start + end + 1
	return p.addAtom(a, start)
}

// parseBracket reads "isotope? symbol chiral? hcount? charge? class?".
func (p *parser) parseBracket(body string, offset int) (chem.Atom, error) {
	a := chem.Atom{Bracket: true}
	i := 0

	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}

	if i >= len(body) {
		return a, p.errorf(offset+i, "missing element symbol")
	}
	switch {
	case body[i] == '*':
		i++
	case isLower(body[i]):
		sym := body[i : i+1]
		if i+1 < len(body) && isLower(body[i+1]) {
			if _, ok := chem.AromaticElement(body[i : i+2]); ok {
				sym = body[i : i+2]
			}
		}
		e, ok := chem.AromaticElement(sym)
		if !ok {
			return a, p.errorf(offset+i, "unknown aromatic element %q", sym)
		}
		a.Number, a.Aromatic = e.Number, true
		i += len(sym)
	case isUpper(body[i]):
		sym := body[i : i+1]
		if i+1 < len(body) && isLower(body[i+1]) {
			if _, ok := chem.ElementBySymbol(body[i : i+2]); ok {
				sym = body[i : i+2]
			}
		}
		e, ok := chem.ElementBySymbol(sym)
		if !ok {
			return a, p.errorf(offset+i, "unknown element %q", sym)
		}
		a.Number = e.Number
		i += len(sym)
	default:
		return a, p.errorf(offset+i, "invalid element symbol %q", body[i])
	}

	// chirality
	if i < len(body) && body[i] == '@' {
		i++
		if i < len(body) && body[i] == '@' {
			i++
		} else if i+1 < len(body) && isUpper(body[i]) && isUpper(body[i+1]) {
			i += 2
			for i < len(body) && isDigit(body[i]) {
				i++
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.ExplicitH = 1
		if i < len(body) && isDigit(body[i]) {
			a.ExplicitH = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		ch := body[i]
		i++
		n := 1
		switch {
		case i < len(body) && isDigit(body[i]):
			n = 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
		default:
			for i < len(body) && body[i] == ch {
				n++
				i++
			}
		}
		if n > 15 {
			return a, p.errorf(offset+i, "charge %d out of range", sign*n)
		}
		a.Charge = sign * n
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return a, p.errorf(offset+i, "atom class must be numeric")
		}
		for i < len(body) && isDigit(body[i]) {
			a.Class = a.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return a, p.errorf(offset+i, "unexpected %q in bracket atom", body[i:])
	}
	return a, nil
}

func isDirectional(b bondSymbol) bool { return b == '/' || b == '\\' }
func isDigit(c byte) bool             { return c >= '0' && c <= '9' }
func isLower(c byte) bool             { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool             { return c >= 'A' && c <= 'Z' }
