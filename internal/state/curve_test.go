package state

import (
	"testing"

	"PerpMarket/internal/fixed"
)

func testCurve() UtilizationCurve {
	return UtilizationCurve{
		MinRate:           fixed.D18("-0.10"),
		TargetRate:        fixed.D18("0.05"),
		MaxRate:           fixed.D18("0.50"),
		TargetUtilization: fixed.U18("0.8"),
	}
}

func TestCurveRate(t *testing.T) {
	c := testCurve()

	tests := []struct {
		name        string
		utilization string
		want        string
	}{
		{"empty book", "0", "-0.10"},
		{"below target", "0.4", "-0.025"},
		{"at target", "0.8", "0.05"},
		{"above target", "0.9", "0.275"},
		{"full utilization", "1", "0.50"},
		{"extrapolated past one", "1.2", "0.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Rate(fixed.U18(tt.utilization))
			if got.Cmp(fixed.D18(tt.want)) != 0 {
				t.Errorf("Rate(%s) = %s, want %s", tt.utilization, got, tt.want)
			}
		})
	}
}

func TestCurveRateMonotone(t *testing.T) {
	c := testCurve()

	prev := c.Rate(fixed.UDec18{})
	for _, u := range []string{"0.1", "0.2", "0.5", "0.79", "0.8", "0.81", "0.99", "1", "1.5", "2"} {
		got := c.Rate(fixed.U18(u))
		if got.Cmp(prev) < 0 {
			t.Fatalf("rate decreased at utilization %s: %s < %s", u, got, prev)
		}
		prev = got
	}
}

func TestCurveDegenerateSegments(t *testing.T) {
	// Target pinned to zero collapses the first segment.
	c := UtilizationCurve{
		MinRate:           fixed.D18("0.01"),
		TargetRate:        fixed.D18("0.01"),
		MaxRate:           fixed.D18("0.20"),
		TargetUtilization: fixed.UDec18{},
	}
	if got := c.Rate(fixed.UDec18{}); got.Cmp(fixed.D18("0.01")) != 0 {
		t.Errorf("Rate(0) = %s, want 0.01", got)
	}

	// Target pinned to one collapses the second segment.
	c = UtilizationCurve{
		MinRate:           fixed.D18("0.01"),
		TargetRate:        fixed.D18("0.20"),
		MaxRate:           fixed.D18("0.20"),
		TargetUtilization: fixed.OneU18(),
	}
	if got := c.Rate(fixed.U18("1.5")); got.Cmp(fixed.D18("0.20")) != 0 {
		t.Errorf("Rate(1.5) = %s, want 0.20", got)
	}
}

func TestCurveValidate(t *testing.T) {
	if err := testCurve().Validate(); err != nil {
		t.Errorf("valid curve rejected: %v", err)
	}

	c := testCurve()
	c.TargetUtilization = fixed.U18("1.5")
	if err := c.Validate(); err == nil {
		t.Error("target utilization above 1 accepted")
	}

	c = testCurve()
	c.MinRate = fixed.D18("0.10")
	if err := c.Validate(); err == nil {
		t.Error("min rate above target rate accepted")
	}

	c = testCurve()
	c.MaxRate = fixed.D18("-0.50")
	if err := c.Validate(); err == nil {
		t.Error("max rate below target rate accepted")
	}
}
