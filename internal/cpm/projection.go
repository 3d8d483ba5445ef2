package cpm

import "strings"

// Row is one line of the task table.
type Row struct {
	Task           string   `json:"task"`
	Duration       float64  `json:"duration"`
	Dependencies   []string `json:"dependencies"`
	EarliestStart  float64  `json:"est"`
	EarliestFinish float64  `json:"eft"`
	LatestStart    float64  `json:"lst"`
	LatestFinish   float64  `json:"lft"`
	Slack          float64  `json:"float"`
	Critical       bool     `json:"critical"`
}

// Summary describes the project as a whole.
type Summary struct {
	ProjectDuration   float64  `json:"project_duration"`
	CriticalPath      []string `json:"critical_path"`
	TaskCount         int      `json:"num_tasks"`
	CriticalTaskCount int      `json:"num_critical_tasks"`
}

// PathString joins the critical path with delim.
func (s Summary) PathString(delim string) string {
	return strings.Join(s.CriticalPath, delim)
}

// Table returns one row per task in registration order. A row is marked
// critical when its task appears on the critical path.
func (p *Project) Table() []Row {
	onPath := make(map[string]bool, len(p.criticalPath))
	for _, id := range p.criticalPath {
		onPath[id] = true
	}

	rows := make([]Row, 0, len(p.order))
	for _, id := range p.order {
		t := p.tasks[id]
		rows = append(rows, Row{
			Task:           id,
			Duration:       t.Duration,
			Dependencies:   append([]string{}, t.Dependencies...),
			EarliestStart:  t.EarliestStart,
			EarliestFinish: t.EarliestFinish,
			LatestStart:    t.LatestStart,
			LatestFinish:   t.LatestFinish,
			Slack:          t.Slack,
			Critical:       onPath[id],
		})
	}
	return rows
}

// Summary returns the project-level figures from the last successful
// analysis.
func (p *Project) Summary() Summary {
	return Summary{
		ProjectDuration:   p.duration,
		CriticalPath:      append([]string{}, p.criticalPath...),
		TaskCount:         len(p.order),
		CriticalTaskCount: len(p.criticalPath),
	}
}
