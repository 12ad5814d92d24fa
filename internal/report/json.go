package report

import (
	"encoding/json"
	"io"

	"github.com/TrevorS/mrdca/internal/experiment"
)

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s *experiment.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
