package report

import (
	"encoding/json"
	"io"

	"github.com/papapumpkin/critpath/internal/cpm"
)

// Document is the JSON export shape.
type Document struct {
	Summary cpm.Summary `json:"summary"`
	Tasks   []cpm.Row   `json:"tasks"`
}

// WriteJSON writes the summary and task table as one indented JSON document.
func WriteJSON(w io.Writer, rows []cpm.Row, summary cpm.Summary) error {
	if rows == nil {
		rows = []cpm.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Summary: summary, Tasks: rows})
}
