package sim

// Trace retention limits.
const (
	// WindowMin is the rolling time window kept in continuous mode.
	WindowMin = 60.0
	// BatchCap is the hard point cap applied after a batch fast-forward.
	BatchCap = 900
)

// TracePoint is one timeline sample of the derived observables.
type TracePoint struct {
	T           float64 `json:"t"`
	DA          float64 `json:"da"`
	GABA        float64 `json:"gaba"`
	Nic         float64 `json:"nic"`
	DesensTotal float64 `json:"desens_total"`
	Puff        bool    `json:"puff"`
}

// Trace is the bounded historical buffer feeding the timeline display.
// Points are appended in increasing T order; pruning and clearing are the
// only other mutations.
type Trace struct {
	points []TracePoint
}

func NewTrace() *Trace {
	return &Trace{points: make([]TracePoint, 0, BatchCap)}
}

func (tr *Trace) Append(pt TracePoint) {
	tr.points = append(tr.points, pt)
}

// PruneWindow drops every point older than window minutes behind the
// latest point (retention policy for continuous mode).
func (tr *Trace) PruneWindow(window float64) {
	if len(tr.points) == 0 {
		return
	}
	cutoff := tr.points[len(tr.points)-1].T - window
	i := 0
	for i < len(tr.points) && tr.points[i].T < cutoff {
		i++
	}
	if i > 0 {
		tr.points = append(tr.points[:0], tr.points[i:]...)
	}
}

// CapCount truncates to the n most recent points regardless of age
// (retention policy for batch fast-forward).
func (tr *Trace) CapCount(n int) {
	if n < 0 || len(tr.points) <= n {
		return
	}
	excess := len(tr.points) - n
	tr.points = append(tr.points[:0], tr.points[excess:]...)
}

func (tr *Trace) Clear() {
	tr.points = tr.points[:0]
}

func (tr *Trace) Len() int {
	return len(tr.points)
}

// Points returns a copy of the retained points.
func (tr *Trace) Points() []TracePoint {
	out := make([]TracePoint, len(tr.points))
	copy(out, tr.points)
	return out
}

func (tr *Trace) Latest() (TracePoint, bool) {
	if len(tr.points) == 0 {
		return TracePoint{}, false
	}
	return tr.points[len(tr.points)-1], true
}
