package domain

// TaskResult is the outcome of one task on one host. Registered variables
// hold exactly this shape, so when expressions can test rc and the
// succeeded/failed/skipped states.
type TaskResult struct {
	Task    string
	Host    string
	RC      int
	Stdout  string
	Stderr  string
	Failed  bool
	Skipped bool
	Ignored bool
	Changed bool
}

// Succeeded reports whether the task ran and exited cleanly.
func (r TaskResult) Succeeded() bool {
	return !r.Skipped && !r.Failed
}

// HostStats tallies task outcomes for one host, recap-style.
type HostStats struct {
	OK      int
	Changed int
	Failed  int
	Skipped int
	Ignored int
}

// RunReport collects every task result of a playbook run plus per-host stats.
type RunReport struct {
	Playbook string
	Results  []TaskResult
	Stats    map[string]*HostStats
}

// NewRunReport creates an empty report for the given playbook path.
func NewRunReport(playbook string) *RunReport {
	return &RunReport{
		Playbook: playbook,
		Stats:    make(map[string]*HostStats),
	}
}

// Record appends a result and folds it into the host stats.
func (r *RunReport) Record(res TaskResult) {
	r.Results = append(r.Results, res)
	stats, ok := r.Stats[res.Host]
	if !ok {
		stats = &HostStats{}
		r.Stats[res.Host] = stats
	}
	switch {
	case res.Skipped:
		stats.Skipped++
	case res.Ignored:
		stats.Ignored++
	case res.Failed:
		stats.Failed++
	default:
		stats.OK++
		if res.Changed {
			stats.Changed++
		}
	}
}

// Failed reports whether any host ended the run with a failure.
func (r *RunReport) Failed() bool {
	for _, stats := range r.Stats {
		if stats.Failed > 0 {
			return true
		}
	}
	return false
}
