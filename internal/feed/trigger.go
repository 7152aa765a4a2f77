package feed

// DefaultThreshold is the sentinel visibility ratio that counts as "reached the end"
const DefaultThreshold = 0.1

// Trigger turns sentinel visibility into page requests. It keeps no state
// and never deduplicates; the engine's guard suppresses redundant requests.
type Trigger struct {
	Engine    *Engine
	Threshold float64
}

// NewTrigger returns a trigger for engine with the default threshold
func NewTrigger(engine *Engine) Trigger {
	return Trigger{Engine: engine, Threshold: DefaultThreshold}
}

// Observe reports one visibility evaluation of the sentinel. A ratio at or
// above the threshold asks the engine for the next page.
func (t Trigger) Observe(ratio float64) (PageRequest, bool) {
	threshold := t.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if t.Engine == nil || ratio <= 0 || ratio < threshold {
		return PageRequest{}, false
	}
	return t.Engine.RequestPage()
}

// IntersectionRatio returns the fraction of the marker, spanning
// [markerTop, markerTop+markerHeight), that lies inside the view
// [viewTop, viewTop+viewHeight). Units are rows.
func IntersectionRatio(viewTop, viewHeight, markerTop, markerHeight int) float64 {
	if viewHeight <= 0 || markerHeight <= 0 {
		return 0
	}
	top := max(viewTop, markerTop)
	bottom := min(viewTop+viewHeight, markerTop+markerHeight)
	if bottom <= top {
		return 0
	}
	return float64(bottom-top) / float64(markerHeight)
}
