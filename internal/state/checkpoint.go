package state

import (
	"PerpMarket/internal/fixed"
)

// Checkpoint is one entry of the version accumulator: cumulative per-unit
// value and reward accrued to each position side up to and including an
// oracle version. Entries are written once and never mutated, which is what
// lets an account catch up across any number of skipped versions in O(1).
type Checkpoint struct {
	MakerValue fixed.Dec18 `json:"maker_value"`
	LongValue  fixed.Dec18 `json:"long_value"`
	ShortValue fixed.Dec18 `json:"short_value"`

	MakerReward fixed.UDec18 `json:"maker_reward"`
	LongReward  fixed.UDec18 `json:"long_reward"`
	ShortReward fixed.UDec18 `json:"short_reward"`
}

// Add folds a per-transition delta into the cumulative totals.
func (c Checkpoint) Add(d Checkpoint) Checkpoint {
	return Checkpoint{
		MakerValue:  c.MakerValue.Add(d.MakerValue),
		LongValue:   c.LongValue.Add(d.LongValue),
		ShortValue:  c.ShortValue.Add(d.ShortValue),
		MakerReward: c.MakerReward.Add(d.MakerReward),
		LongReward:  c.LongReward.Add(d.LongReward),
		ShortReward: c.ShortReward.Add(d.ShortReward),
	}
}

// Accrue computes the collateral value and reward earned by a position held
// constant between two checkpoints.
func Accrue(from, to Checkpoint, pos Position) (fixed.Dec6, fixed.UDec6) {
	value := to.MakerValue.Sub(from.MakerValue).Mul(pos.Maker.To18().Signed()).
		Add(to.LongValue.Sub(from.LongValue).Mul(pos.Long.To18().Signed())).
		Add(to.ShortValue.Sub(from.ShortValue).Mul(pos.Short.To18().Signed())).
		To6()

	reward := to.MakerReward.Sub(from.MakerReward).Mul(pos.Maker.To18()).
		Add(to.LongReward.Sub(from.LongReward).Mul(pos.Long.To18())).
		Add(to.ShortReward.Sub(from.ShortReward).Mul(pos.Short.To18())).
		To6()

	return value, reward
}
