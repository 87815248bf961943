package fixed

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Two precisions coexist: 6-decimal amounts for collateral, positions and
// prices; 18-decimal values for per-unit accruals, rates and ratios.
// Multiplication truncates to the result scale, division truncates toward
// zero. Conversions from 18 to 6 decimals truncate; the other direction is
// exact.
const (
	Scale6  int32 = 6
	Scale18 int32 = 18
)

// maxAbs bounds every representable value. Results at or beyond the bound
// raise an Overflow fault instead of propagating silently.
var maxAbs = decimal.New(1, 30)

// FaultKind classifies an arithmetic fault.
type FaultKind int

const (
	FaultOverflow FaultKind = iota + 1
	FaultUnderflow
	FaultDivisionByZero
)

func (k FaultKind) String() string {
	switch k {
	case FaultOverflow:
		return "Overflow"
	case FaultUnderflow:
		return "Underflow"
	case FaultDivisionByZero:
		return "DivisionByZero"
	default:
		return "Unknown"
	}
}

// Fault is raised (via panic) on range violations. Arithmetic faults are
// bugs or hostile-input guards, not recoverable conditions; call boundaries
// recover them into typed errors.
type Fault struct {
	Kind FaultKind
	Op   string
}

func (f Fault) Error() string {
	return fmt.Sprintf("fixed: %s in %s", f.Kind, f.Op)
}

func check(op string, d decimal.Decimal) decimal.Decimal {
	if d.Abs().Cmp(maxAbs) >= 0 {
		panic(Fault{Kind: FaultOverflow, Op: op})
	}
	return d
}

func checkUnsigned(op string, d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		panic(Fault{Kind: FaultUnderflow, Op: op})
	}
	return check(op, d)
}

func divGuard(op string, d decimal.Decimal) {
	if d.IsZero() {
		panic(Fault{Kind: FaultDivisionByZero, Op: op})
	}
}

// ----------------------------------------------------------------------------
// Dec6: signed 6-decimal amount (collateral, prices, signed notionals).
// ----------------------------------------------------------------------------

type Dec6 struct {
	d decimal.Decimal
}

func D6(s string) Dec6 {
	return Dec6{d: decimal.RequireFromString(s).Truncate(Scale6)}
}

func D6FromInt(v int64) Dec6 {
	return Dec6{d: decimal.NewFromInt(v)}
}

func D6FromDecimal(d decimal.Decimal) Dec6 {
	return Dec6{d: check("D6FromDecimal", d.Truncate(Scale6))}
}

func (a Dec6) Add(b Dec6) Dec6 { return Dec6{d: check("Dec6.Add", a.d.Add(b.d))} }
func (a Dec6) Sub(b Dec6) Dec6 { return Dec6{d: check("Dec6.Sub", a.d.Sub(b.d))} }
func (a Dec6) Neg() Dec6       { return Dec6{d: a.d.Neg()} }

func (a Dec6) Mul(b Dec6) Dec6 {
	return Dec6{d: check("Dec6.Mul", a.d.Mul(b.d).Truncate(Scale6))}
}

// Div truncates toward zero.
func (a Dec6) Div(b Dec6) Dec6 {
	divGuard("Dec6.Div", b.d)
	q, _ := a.d.QuoRem(b.d, Scale6)
	return Dec6{d: check("Dec6.Div", q)}
}

func (a Dec6) Abs() UDec6               { return UDec6{d: a.d.Abs()} }
func (a Dec6) Cmp(b Dec6) int           { return a.d.Cmp(b.d) }
func (a Dec6) Sign() int                { return a.d.Sign() }
func (a Dec6) IsZero() bool             { return a.d.IsZero() }
func (a Dec6) To18() Dec18              { return Dec18{d: a.d} }
func (a Dec6) String() string           { return a.d.StringFixed(Scale6) }
func (a Dec6) Decimal() decimal.Decimal { return a.d }

// Unsigned reinterprets a non-negative amount; negative input is an
// Underflow fault.
func (a Dec6) Unsigned() UDec6 {
	return UDec6{d: checkUnsigned("Dec6.Unsigned", a.d)}
}

// Float64 is a lossy view for metrics and logging only.
func (a Dec6) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Dec6) MarshalJSON() ([]byte, error)  { return []byte(`"` + a.String() + `"`), nil }
func (a *Dec6) UnmarshalJSON(b []byte) error { return unmarshalInto(b, Scale6, false, &a.d) }

// ----------------------------------------------------------------------------
// UDec6: unsigned 6-decimal amount (position sizes, fee balances).
// ----------------------------------------------------------------------------

type UDec6 struct {
	d decimal.Decimal
}

func U6(s string) UDec6 {
	d := decimal.RequireFromString(s).Truncate(Scale6)
	return UDec6{d: checkUnsigned("U6", d)}
}

func U6FromInt(v int64) UDec6 {
	return UDec6{d: checkUnsigned("U6FromInt", decimal.NewFromInt(v))}
}

func (a UDec6) Add(b UDec6) UDec6 { return UDec6{d: check("UDec6.Add", a.d.Add(b.d))} }

// Sub faults with Underflow when the result would go negative.
func (a UDec6) Sub(b UDec6) UDec6 {
	return UDec6{d: checkUnsigned("UDec6.Sub", a.d.Sub(b.d))}
}

func (a UDec6) Mul(b UDec6) UDec6 {
	return UDec6{d: check("UDec6.Mul", a.d.Mul(b.d).Truncate(Scale6))}
}

func (a UDec6) Div(b UDec6) UDec6 {
	divGuard("UDec6.Div", b.d)
	q, _ := a.d.QuoRem(b.d, Scale6)
	return UDec6{d: check("UDec6.Div", q)}
}

// Div18 divides at 18-decimal precision, truncating toward zero. Used for
// ratios of 6-decimal quantities (utilization, socialization).
func (a UDec6) Div18(b UDec6) UDec18 {
	divGuard("UDec6.Div18", b.d)
	q, _ := a.d.QuoRem(b.d, Scale18)
	return UDec18{d: check("UDec6.Div18", q)}
}

func (a UDec6) Cmp(b UDec6) int          { return a.d.Cmp(b.d) }
func (a UDec6) IsZero() bool             { return a.d.IsZero() }
func (a UDec6) Signed() Dec6             { return Dec6{d: a.d} }
func (a UDec6) To18() UDec18             { return UDec18{d: a.d} }
func (a UDec6) String() string           { return a.d.StringFixed(Scale6) }
func (a UDec6) Decimal() decimal.Decimal { return a.d }

func MinU6(a, b UDec6) UDec6 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func MaxU6(a, b UDec6) UDec6 {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Float64 is a lossy view for metrics and logging only.
func (a UDec6) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a UDec6) MarshalJSON() ([]byte, error)  { return []byte(`"` + a.String() + `"`), nil }
func (a *UDec6) UnmarshalJSON(b []byte) error { return unmarshalInto(b, Scale6, true, &a.d) }

// ----------------------------------------------------------------------------
// Dec18: signed 18-decimal value (per-unit accruals, funding rates).
// ----------------------------------------------------------------------------

type Dec18 struct {
	d decimal.Decimal
}

func D18(s string) Dec18 {
	return Dec18{d: decimal.RequireFromString(s).Truncate(Scale18)}
}

func (a Dec18) Add(b Dec18) Dec18 { return Dec18{d: check("Dec18.Add", a.d.Add(b.d))} }
func (a Dec18) Sub(b Dec18) Dec18 { return Dec18{d: check("Dec18.Sub", a.d.Sub(b.d))} }
func (a Dec18) Neg() Dec18        { return Dec18{d: a.d.Neg()} }

func (a Dec18) Mul(b Dec18) Dec18 {
	return Dec18{d: check("Dec18.Mul", a.d.Mul(b.d).Truncate(Scale18))}
}

func (a Dec18) Div(b Dec18) Dec18 {
	divGuard("Dec18.Div", b.d)
	q, _ := a.d.QuoRem(b.d, Scale18)
	return Dec18{d: check("Dec18.Div", q)}
}

// MulInt scales by an integer (elapsed seconds, year length).
func (a Dec18) MulInt(v int64) Dec18 {
	return Dec18{d: check("Dec18.MulInt", a.d.Mul(decimal.NewFromInt(v)))}
}

func (a Dec18) DivInt(v int64) Dec18 {
	divGuard("Dec18.DivInt", decimal.NewFromInt(v))
	q, _ := a.d.QuoRem(decimal.NewFromInt(v), Scale18)
	return Dec18{d: q}
}

func (a Dec18) Abs() UDec18     { return UDec18{d: a.d.Abs()} }
func (a Dec18) Cmp(b Dec18) int { return a.d.Cmp(b.d) }
func (a Dec18) Sign() int       { return a.d.Sign() }
func (a Dec18) IsZero() bool    { return a.d.IsZero() }
func (a Dec18) String() string  { return a.d.StringFixed(Scale18) }

// To6 truncates toward zero into the collateral precision. This is the only
// lossy conversion direction.
func (a Dec18) To6() Dec6 { return Dec6{d: a.d.Truncate(Scale6)} }

func (a Dec18) MarshalJSON() ([]byte, error)  { return []byte(`"` + a.String() + `"`), nil }
func (a *Dec18) UnmarshalJSON(b []byte) error { return unmarshalInto(b, Scale18, false, &a.d) }

// ----------------------------------------------------------------------------
// UDec18: unsigned 18-decimal value (ratios, reward rates, per-unit rewards).
// ----------------------------------------------------------------------------

type UDec18 struct {
	d decimal.Decimal
}

func U18(s string) UDec18 {
	d := decimal.RequireFromString(s).Truncate(Scale18)
	return UDec18{d: checkUnsigned("U18", d)}
}

// OneU18 is the unit ratio.
func OneU18() UDec18 { return UDec18{d: decimal.New(1, 0)} }

func (a UDec18) Add(b UDec18) UDec18 { return UDec18{d: check("UDec18.Add", a.d.Add(b.d))} }

func (a UDec18) Sub(b UDec18) UDec18 {
	return UDec18{d: checkUnsigned("UDec18.Sub", a.d.Sub(b.d))}
}

func (a UDec18) Mul(b UDec18) UDec18 {
	return UDec18{d: check("UDec18.Mul", a.d.Mul(b.d).Truncate(Scale18))}
}

func (a UDec18) Div(b UDec18) UDec18 {
	divGuard("UDec18.Div", b.d)
	q, _ := a.d.QuoRem(b.d, Scale18)
	return UDec18{d: check("UDec18.Div", q)}
}

func (a UDec18) MulInt(v int64) UDec18 {
	return UDec18{d: checkUnsigned("UDec18.MulInt", a.d.Mul(decimal.NewFromInt(v)))}
}

func (a UDec18) DivInt(v int64) UDec18 {
	divGuard("UDec18.DivInt", decimal.NewFromInt(v))
	q, _ := a.d.QuoRem(decimal.NewFromInt(v), Scale18)
	return UDec18{d: checkUnsigned("UDec18.DivInt", q)}
}

func (a UDec18) Cmp(b UDec18) int { return a.d.Cmp(b.d) }
func (a UDec18) IsZero() bool     { return a.d.IsZero() }
func (a UDec18) Signed() Dec18    { return Dec18{d: a.d} }
func (a UDec18) To6() UDec6       { return UDec6{d: a.d.Truncate(Scale6)} }
func (a UDec18) String() string   { return a.d.StringFixed(Scale18) }

func MinU18(a, b UDec18) UDec18 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func (a UDec18) MarshalJSON() ([]byte, error)  { return []byte(`"` + a.String() + `"`), nil }
func (a *UDec18) UnmarshalJSON(b []byte) error { return unmarshalInto(b, Scale18, true, &a.d) }

// ----------------------------------------------------------------------------

func unmarshalInto(b []byte, scale int32, unsigned bool, dst *decimal.Decimal) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("fixed: parse %q: %w", s, err)
	}
	if unsigned && d.Sign() < 0 {
		return fmt.Errorf("fixed: %q is negative, expected unsigned", s)
	}
	if d.Abs().Cmp(maxAbs) >= 0 {
		return fmt.Errorf("fixed: %q out of range", s)
	}
	*dst = d.Truncate(scale)
	return nil
}
