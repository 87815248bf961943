package state

import (
	"PerpMarket/internal/fixed"
)

// Position is the maker/long/short triple. All three fields are non-negative
// and every derived quantity is a pure function of them.
type Position struct {
	Maker fixed.UDec6 `json:"maker"`
	Long  fixed.UDec6 `json:"long"`
	Short fixed.UDec6 `json:"short"`
}

// Net returns the net taker exposure long − short.
func (p Position) Net() fixed.Dec6 {
	return p.Long.Signed().Sub(p.Short.Signed())
}

// Taker returns the magnitude of the net taker exposure. A fully hedged
// taker book consumes no maker liquidity.
func (p Position) Taker() fixed.UDec6 {
	return p.Net().Abs()
}

// Magnitude is the per-leg position size used for maintenance and fee
// notionals. Hedged taker legs do not net off.
func (p Position) Magnitude() fixed.UDec6 {
	return p.Maker.Add(p.Long).Add(p.Short)
}

// Utilization returns taker / maker, zero when maker is zero. Values above 1
// are legitimate while the market is over-utilized.
func (p Position) Utilization() fixed.UDec18 {
	if p.Maker.IsZero() {
		return fixed.UDec18{}
	}
	return p.Taker().Div18(p.Maker)
}

// SocializationFactor returns min(1, maker/taker): the fraction of taker
// exposure that makers can actually absorb. 1 while taker <= maker.
func (p Position) SocializationFactor() fixed.UDec18 {
	taker := p.Taker()
	if taker.Cmp(p.Maker) <= 0 {
		return fixed.OneU18()
	}
	return p.Maker.Div18(taker)
}

func (p Position) IsZero() bool {
	return p.Maker.IsZero() && p.Long.IsZero() && p.Short.IsZero()
}
