package ingest

import "math"

// durationSeconds converts the provider's millisecond duration to whole
// seconds, rounding to the nearest second (125499ms -> 125s, 125500ms -> 126s).
// Missing or negative input degrades to 0.
func durationSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return int64(math.Round(float64(ms) / 1000.0))
}

// callCost reads whichever cost shape the provider sent and returns decimal
// currency. combined_cost arrives in hundredths and is divided down;
// total_cost is taken as-is. Absent or malformed input degrades to 0, never
// an error.
func callCost(p *CallPayload) float64 {
	var cost float64
	switch {
	case p.CallCost != nil:
		cost = p.CallCost.CombinedCost / 100
	case p.CostMetadata != nil:
		cost = p.CostMetadata.TotalCost
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}
