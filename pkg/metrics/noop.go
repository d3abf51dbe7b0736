package metrics

// Noop discards every observation. It stands in wherever metrics are
// disabled so callers never test for nil.
type Noop struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) SweepStarted()              {}
func (Noop) SweepDuration(float64)      {}
func (Noop) PhaseFailed(string)         {}
func (Noop) FilesReclaimed(int)         {}
func (Noop) RecordsMarkedExpired(int64) {}
func (Noop) RecordsHardDeleted(int64)   {}
func (Noop) SequenceRestarted()         {}
func (Noop) SessionsReclaimed(int)      {}
func (Noop) ChunkDeleted(string)        {}
func (Noop) UsageRowsPruned(int64)      {}
