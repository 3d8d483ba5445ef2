package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/papapumpkin/critpath/internal/cpm"
)

var csvHeader = []string{"Task", "Duration", "Dependencies", "EST", "EFT", "LST", "LFT", "Float", "Critical"}

// WriteCSV writes the task table as CSV with a header row.
func WriteCSV(w io.Writer, rows []cpm.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Task,
			formatNumber(r.Duration),
			strings.Join(r.Dependencies, ","),
			formatNumber(r.EarliestStart),
			formatNumber(r.EarliestFinish),
			formatNumber(r.LatestStart),
			formatNumber(r.LatestFinish),
			formatNumber(r.Slack),
			strconv.FormatBool(r.Critical),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
