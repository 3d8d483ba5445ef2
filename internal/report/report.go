// Package report renders analyzed projects for people and other tools.
// Every renderer works only from the cpm.Row and cpm.Summary projections.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/papapumpkin/critpath/internal/cpm"
)

// ErrUnknownFormat is returned by Write for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by Write.
const (
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists the supported format names.
var Formats = []string{FormatCSV, FormatTXT, FormatJSON, FormatDOT}

// Options controls presentation details shared by the renderers.
type Options struct {
	Title     string
	TimeUnit  string
	Delimiter string
	// Now stamps generated reports; defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Project"
	}
	if o.TimeUnit == "" {
		o.TimeUnit = "days"
	}
	if o.Delimiter == "" {
		o.Delimiter = " → "
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Write renders rows and summary in the named format.
func Write(w io.Writer, format string, rows []cpm.Row, summary cpm.Summary, opts Options) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatTXT:
		return WriteText(w, rows, summary, opts)
	case FormatJSON:
		return WriteJSON(w, rows, summary)
	case FormatDOT:
		return WriteDOT(w, rows, summary, opts)
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// FormatDuration prints whole values without a fractional part and anything
// else with one decimal place.
func FormatDuration(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
