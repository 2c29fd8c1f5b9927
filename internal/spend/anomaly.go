package spend

// SpikeThresholdPct is the month-over-month rise, in percent, above which
// the latest period is flagged.
const SpikeThresholdPct = 25.0

// Banner is shown above the history chart when a spike is detected.
const Banner = "Anomaly Detected! Cost Spike Detected This Month!"

// Anomaly is the result of comparing the last two periods.
type Anomaly struct {
	Detected bool
	SpikePct float64
	Previous Point
	Current  Point
}

// Detect compares the final period against the one before it.
//
// A zero previous amount is not special-cased: a rise from zero yields +Inf
// and is flagged, 0 to 0 yields NaN and is not, a drop from zero yields -Inf.
func Detect(s Series) Anomaly {
	if len(s) < 2 {
		return Anomaly{}
	}
	prev, cur := s[len(s)-2], s[len(s)-1]
	spike := (cur.Amount - prev.Amount) / prev.Amount * 100
	return Anomaly{
		Detected: spike > SpikeThresholdPct,
		SpikePct: spike,
		Previous: prev,
		Current:  cur,
	}
}
