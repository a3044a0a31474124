package simulation

// Recorder is an Observer that keeps the first Limit snapshots and counts
// the rest. A Limit of zero counts without keeping anything.
type Recorder struct {
	Limit     int
	snapshots []Snapshot
	total     int
}

// NewRecorder creates a recorder that keeps at most limit snapshots
func NewRecorder(limit int) *Recorder {
	if limit < 0 {
		limit = 0
	}
	return &Recorder{Limit: limit}
}

// Observe implements Observer
func (r *Recorder) Observe(s Snapshot) {
	r.total++
	if len(r.snapshots) < r.Limit {
		r.snapshots = append(r.snapshots, s)
	}
}

// Snapshots returns the recorded snapshots in processing order
func (r *Recorder) Snapshots() []Snapshot {
	return r.snapshots
}

// Total returns the number of snapshots observed, kept or not
func (r *Recorder) Total() int {
	return r.total
}
