package reporting

import (
	"encoding/json"
	"io"

	"github.com/turtacn/druglike/pkg/types/molecule"
)

// JSONReporter writes the items as one JSON array.
type JSONReporter struct {
	Indent string
}

func (j JSONReporter) Write(w io.Writer, items []molecule.BatchItemDTO) error {
	if items == nil {
		items = []molecule.BatchItemDTO{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return enc.Encode(items)
}
