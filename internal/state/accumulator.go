package state

import (
	"PerpMarket/internal/fixed"
	"PerpMarket/internal/oracle"
)

// SecondsPerYear is the funding annualization base (365 days).
const SecondsPerYear int64 = 365 * 24 * 3600

// Accumulation is the result of one version transition: the per-unit
// checkpoint delta plus the fee slice withheld from funding.
type Accumulation struct {
	Delta Checkpoint

	// Fee is the slice of the funding transfer withheld for the
	// protocol/market split.
	Fee fixed.UDec6

	// FundingTransfer is the gross amount moved between taker and maker
	// sides (observability only).
	FundingTransfer fixed.UDec6
}

// Accumulate computes the per-unit value and reward deltas for the
// transition from → to, using the position that was live during that
// interval. A transition onto the same version is a no-op; two versions
// sharing a timestamp degenerate to a pure price-PnL update. In a closed
// market funding and price PnL are frozen while rewards keep accruing.
func Accumulate(from, to oracle.Version, pos Position, param MarketParameter) Accumulation {
	var acc Accumulation
	if to.Version == from.Version {
		return acc
	}
	elapsed := to.Timestamp - from.Timestamp

	if !param.Closed {
		accumulateFunding(&acc, from, elapsed, pos, param)
		accumulatePnL(&acc, from, to, pos)
	}
	accumulateReward(&acc, elapsed, pos, param)
	return acc
}

// accumulateFunding transfers value between the dominant taker side and the
// maker side:
//
//	rate     = curve(utilization), annualized
//	transfer = |rate| × elapsed/year × |net × price(from)|
//
// A positive rate debits the dominant taker side and credits makers; a
// negative rate flips the direction. FundingFee is withheld from the
// receiving side's credit.
func accumulateFunding(acc *Accumulation, from oracle.Version, elapsed int64, pos Position, param MarketParameter) {
	net := pos.Net()
	if elapsed <= 0 || net.IsZero() || pos.Maker.IsZero() {
		return
	}

	rate := param.Curve.Rate(pos.Utilization())
	if rate.IsZero() {
		return
	}

	transfer := rate.Abs().MulInt(elapsed).DivInt(SecondsPerYear).Signed().
		Mul(net.Abs().To18().Signed()).
		Mul(from.Price.Abs().To18().Signed()).
		To6().Unsigned()
	if transfer.IsZero() {
		return
	}

	fee := transfer.To18().Mul(param.FundingFee).To6()
	credit := transfer.Sub(fee)

	takerSize := pos.Long
	takerValue := &acc.Delta.LongValue
	if net.Sign() < 0 {
		takerSize = pos.Short
		takerValue = &acc.Delta.ShortValue
	}

	if rate.Sign() > 0 {
		// Dominant takers pay makers.
		*takerValue = takerValue.Sub(perUnit(transfer.Signed(), takerSize))
		acc.Delta.MakerValue = acc.Delta.MakerValue.Add(perUnit(credit.Signed(), pos.Maker))
	} else {
		// Makers pay dominant takers.
		acc.Delta.MakerValue = acc.Delta.MakerValue.Sub(perUnit(transfer.Signed(), pos.Maker))
		*takerValue = takerValue.Add(perUnit(credit.Signed(), takerSize))
	}

	acc.Fee = acc.Fee.Add(fee)
	acc.FundingTransfer = acc.FundingTransfer.Add(transfer)
}

// accumulatePnL credits price movement to takers and debits makers
// symmetrically. When taker exposure exceeds maker capacity the whole
// distribution is scaled by the socialization factor, so makers are never
// asked to pay out more than they collectively hold and the transition stays
// zero-sum. Any remaining individual deficit surfaces as negative account
// collateral, resolved through liquidation.
func accumulatePnL(acc *Accumulation, from, to oracle.Version, pos Position) {
	priceDelta := to.Price.Sub(from.Price)
	if priceDelta.IsZero() {
		return
	}

	scaled := priceDelta.To18().Mul(pos.SocializationFactor().Signed())

	if !pos.Long.IsZero() {
		acc.Delta.LongValue = acc.Delta.LongValue.Add(scaled)
	}
	if !pos.Short.IsZero() {
		acc.Delta.ShortValue = acc.Delta.ShortValue.Sub(scaled)
	}
	if !pos.Maker.IsZero() {
		makerTotal := scaled.Mul(pos.Net().To18()).Neg()
		acc.Delta.MakerValue = acc.Delta.MakerValue.Add(makerTotal.Div(pos.Maker.To18().Signed()))
	}
}

// accumulateReward shares each side's static per-second emission across the
// units of that side. Sides with zero position carry their cumulative value
// forward untouched.
func accumulateReward(acc *Accumulation, elapsed int64, pos Position, param MarketParameter) {
	if elapsed <= 0 {
		return
	}

	if !pos.Maker.IsZero() && !param.MakerRewardRate.IsZero() {
		acc.Delta.MakerReward = acc.Delta.MakerReward.Add(
			param.MakerRewardRate.MulInt(elapsed).Div(pos.Maker.To18()))
	}
	if !pos.Long.IsZero() && !param.LongRewardRate.IsZero() {
		acc.Delta.LongReward = acc.Delta.LongReward.Add(
			param.LongRewardRate.MulInt(elapsed).Div(pos.Long.To18()))
	}
	if !pos.Short.IsZero() && !param.ShortRewardRate.IsZero() {
		acc.Delta.ShortReward = acc.Delta.ShortReward.Add(
			param.ShortRewardRate.MulInt(elapsed).Div(pos.Short.To18()))
	}
}

// perUnit divides a side-level amount by the side's position size at
// 18-decimal precision. Callers guard against zero sizes.
func perUnit(amount fixed.Dec6, size fixed.UDec6) fixed.Dec18 {
	return amount.To18().Div(size.To18().Signed())
}
