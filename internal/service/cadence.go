package service

import "math"

// Run type offsets applied on top of the pace-derived cadence, in steps per
// minute. Faster efforts favor higher turnover.
var runTypeOffsets = map[string]int{
	"easy":     -5,
	"recovery": -8,
	"long":     -3,
	"tempo":    0,
	"interval": 5,
	"sprint":   8,
}

// Anchor points mapping pace (min/km) to cadence (spm), interpolated
// linearly in between and clamped at the ends.
var cadenceAnchors = []struct {
	pace float64
	bpm  float64
}{
	{3.0, 200},
	{4.0, 185},
	{5.0, 170},
	{6.0, 160},
	{7.0, 150},
	{8.0, 145},
}

const (
	MinBPM = 120
	MaxBPM = 220

	milesPerKm = 0.621371
)

// PaceToBPM converts a running pace to a target step cadence.
// Baseline and target cadence personalize the result: the value is biased 25%
// toward the runner's target, and nudged 2 spm toward baseline when it lands
// more than 10 spm away from it. Output is always within [MinBPM, MaxBPM].
func PaceToBPM(paceValue float64, paceUnit, runType string, baselineCadence, targetCadence *int) int {
	// Normalize to min/km
	pace := paceValue
	if paceUnit == "min_per_mile" {
		pace = paceValue * milesPerKm
	}

	first := cadenceAnchors[0]
	last := cadenceAnchors[len(cadenceAnchors)-1]
	pace = math.Max(math.Min(pace, last.pace), first.pace)

	bpm := last.bpm
	for i := 0; i < len(cadenceAnchors)-1; i++ {
		a, b := cadenceAnchors[i], cadenceAnchors[i+1]
		if pace >= a.pace && pace <= b.pace {
			t := (pace - a.pace) / (b.pace - a.pace)
			bpm = a.bpm + t*(b.bpm-a.bpm)
			break
		}
	}

	bpm += float64(runTypeOffsets[runType])

	if targetCadence != nil {
		bpm = 0.75*bpm + 0.25*float64(*targetCadence)
	}

	if baselineCadence != nil {
		diff := bpm - float64(*baselineCadence)
		if math.Abs(diff) > 10 {
			if diff > 0 {
				bpm -= 2
			} else {
				bpm += 2
			}
		}
	}

	out := int(math.Round(bpm))
	if out < MinBPM {
		out = MinBPM
	}
	if out > MaxBPM {
		out = MaxBPM
	}
	return out
}
