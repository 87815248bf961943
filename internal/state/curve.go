package state

import (
	"fmt"

	"PerpMarket/internal/fixed"
)

// UtilizationCurve maps maker utilization to an annualized funding rate.
// Piecewise-linear through three knots: (0, MinRate), (TargetUtilization,
// TargetRate), (1, MaxRate). Above utilization 1 the last segment
// extrapolates linearly.
type UtilizationCurve struct {
	MinRate           fixed.Dec18  `json:"min_rate"`
	TargetRate        fixed.Dec18  `json:"target_rate"`
	MaxRate           fixed.Dec18  `json:"max_rate"`
	TargetUtilization fixed.UDec18 `json:"target_utilization"`
}

// Rate returns the annualized funding rate at the given utilization.
func (c UtilizationCurve) Rate(utilization fixed.UDec18) fixed.Dec18 {
	u := utilization.Signed()
	target := c.TargetUtilization.Signed()
	one := fixed.OneU18().Signed()

	if u.Cmp(target) <= 0 {
		return interpolate(fixed.Dec18{}, c.MinRate, target, c.TargetRate, u)
	}
	return interpolate(target, c.TargetRate, one, c.MaxRate, u)
}

// interpolate evaluates the line through (x0,y0) and (x1,y1) at x. Points
// beyond x1 extrapolate on the same slope. A degenerate segment returns y1.
func interpolate(x0, y0, x1, y1, x fixed.Dec18) fixed.Dec18 {
	run := x1.Sub(x0)
	if run.IsZero() {
		return y1
	}
	return y0.Add(y1.Sub(y0).Mul(x.Sub(x0)).Div(run))
}

// Validate checks that the curve knots are ordered.
func (c UtilizationCurve) Validate() error {
	if c.TargetUtilization.Cmp(fixed.OneU18()) > 0 {
		return fmt.Errorf("target_utilization must be <= 1, got %s", c.TargetUtilization)
	}
	if c.MinRate.Cmp(c.TargetRate) > 0 {
		return fmt.Errorf("min_rate (%s) must be <= target_rate (%s)", c.MinRate, c.TargetRate)
	}
	if c.TargetRate.Cmp(c.MaxRate) > 0 {
		return fmt.Errorf("target_rate (%s) must be <= max_rate (%s)", c.TargetRate, c.MaxRate)
	}
	return nil
}
