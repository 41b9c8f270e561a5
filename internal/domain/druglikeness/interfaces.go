package druglikeness

// Structure is a parsed molecule able to report its descriptors.
type Structure interface {
	MolecularWeight() float64
	LogP() float64
	HDonors() int
	HAcceptors() int
	Formula() string
}

// Toolkit turns line notation into a Structure. Parse must return a non-nil
// error if and only if the notation is not a valid structure.
type Toolkit interface {
	Parse(notation string) (Structure, error)
}

// ToolkitFunc adapts a function to Toolkit.
type ToolkitFunc func(notation string) (Structure, error)

// Parse calls f.
func (f ToolkitFunc) Parse(notation string) (Structure, error) { return f(notation) }

// DescriptorsOf reads the four descriptors from s.
func DescriptorsOf(s Structure) Descriptors {
	return Descriptors{
		MolecularWeight: s.MolecularWeight(),
		LogP:            s.LogP(),
		HDonors:         s.HDonors(),
		HAcceptors:      s.HAcceptors(),
	}
}
