package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestPaceToBPM(t *testing.T) {
	tests := []struct {
		name     string
		pace     float64
		unit     string
		runType  string
		baseline *int
		target   *int
		want     int
	}{
		{name: "anchor 5:00 tempo", pace: 5.0, unit: "min_per_km", runType: "tempo", want: 170},
		{name: "anchor 5:00 easy", pace: 5.0, unit: "min_per_km", runType: "easy", want: 165},
		{name: "anchor 3:00 sprint", pace: 3.0, unit: "min_per_km", runType: "sprint", want: 208},
		{name: "anchor 7:00 recovery", pace: 7.0, unit: "min_per_km", runType: "recovery", want: 142},
		{name: "interpolated 4:30", pace: 4.5, unit: "min_per_km", runType: "tempo", want: 178},
		{name: "faster than first anchor clamps", pace: 2.0, unit: "min_per_km", runType: "tempo", want: 200},
		{name: "slower than last anchor clamps", pace: 10.0, unit: "min_per_km", runType: "tempo", want: 145},
		{name: "unknown run type has no offset", pace: 5.0, unit: "min_per_km", runType: "bounding", want: 170},
		{name: "miles normalized to km", pace: 8.0, unit: "min_per_mile", runType: "tempo", want: 170},
		{name: "bias toward target", pace: 5.0, unit: "min_per_km", runType: "tempo", target: intPtr(182), want: 173},
		{name: "nudge down toward baseline", pace: 5.0, unit: "min_per_km", runType: "tempo", baseline: intPtr(150), want: 168},
		{name: "nudge up toward baseline", pace: 5.0, unit: "min_per_km", runType: "tempo", baseline: intPtr(185), want: 172},
		{name: "baseline within 10 leaves bpm alone", pace: 5.0, unit: "min_per_km", runType: "tempo", baseline: intPtr(165), want: 170},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaceToBPM(tt.pace, tt.unit, tt.runType, tt.baseline, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Reference datum: whatever the inputs, output stays within [120, 220].
func TestPaceToBPM_Bounds(t *testing.T) {
	for pace := 0.5; pace <= 12.0; pace += 0.5 {
		for runType := range runTypeOffsets {
			got := PaceToBPM(pace, "min_per_km", runType, intPtr(120), intPtr(210))
			assert.GreaterOrEqual(t, got, MinBPM)
			assert.LessOrEqual(t, got, MaxBPM)
		}
	}
}
